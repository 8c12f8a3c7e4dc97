package serve

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cmdUtil "github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/api/server"
	"github.com/ValentinKolb/dDoc/lib/common"
	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/ValentinKolb/dDoc/lib/store/selector"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log = logger.GetLogger("cmd")

	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dDoc server",
		Long:    `Start the dDoc server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DDOC_<flag> (e.g. DDOC_LOG_LEVEL=debug). The Firestore credentials and the port are also read from FIREBASE_PROJECT_ID, FIREBASE_PRIVATE_KEY, FIREBASE_CLIENT_EMAIL and PORT`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "host"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0", cmdUtil.WrapString("The address on which the API will listen"))

	key = "port"
	ServeCmd.PersistentFlags().Int(key, 8000, cmdUtil.WrapString("The port on which the API will listen (env PORT)"))

	key = "allowed-origins"
	ServeCmd.PersistentFlags().String(key, "http://localhost:5173,http://localhost:3000", cmdUtil.WrapString("Comma-separated list of origins allowed to query the API from a browser"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 10, cmdUtil.WrapString("Timeout in seconds for the initial seeding of Firestore and for the graceful shutdown"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	cmdUtil.SetupStoreFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Host = viper.GetString("host")
	serveCmdConfig.Port = viper.GetInt("port")
	if serveCmdConfig.Port < 0 || serveCmdConfig.Port > 65535 {
		return fmt.Errorf("invalid port %d", serveCmdConfig.Port)
	}

	serveCmdConfig.AllowedOrigins = nil
	for _, origin := range strings.Split(viper.GetString("allowed-origins"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			serveCmdConfig.AllowedOrigins = append(serveCmdConfig.AllowedOrigins, origin)
		}
	}

	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	if _, err := common.ParseLogLevel(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	serveCmdConfig.Credentials = cmdUtil.GetCredentials()
	serveCmdConfig.SeedFile = viper.GetString("seed-file")

	return nil
}

// run starts the dDoc server and blocks until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}
	log.Infof("starting dDoc server with config:%s", serveCmdConfig)

	seed, err := cmdUtil.LoadSeed(serveCmdConfig.SeedFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle := selector.New(selector.Config{
		Credentials: serveCmdConfig.Credentials,
		Seed:        seed,
		OnRemote:    hello.EnsureSeeded,
		SeedTimeout: time.Duration(serveCmdConfig.TimeoutSecond) * time.Second,
	}).Init(ctx)

	// release the firestore client on exit
	if closer, ok := handle.Store.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Errorf("failed to close %s store: %v", handle.Backend, err)
			}
		}()
	}

	serv, err := server.NewServer(*serveCmdConfig, hello.NewResolver(handle.Store))
	if err != nil {
		return err
	}
	return serv.Serve(ctx)
}
