package doc

import (
	"io"

	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/selector"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	docStore store.IDocStore

	// DocCommands represents the document command group
	DocCommands = &cobra.Command{
		Use:   "doc",
		Short: "Perform document store operations",
		Long: util.WrapString(`Read and write documents of the selected store directly. ` +
			`Without Firestore credentials the commands act on a fresh in-memory store ` +
			`that only lives as long as the command`),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: closeStore,
	}
)

func init() {
	// Add store flags to the doc command
	util.SetupStoreFlags(DocCommands)

	// Add subcommands
	DocCommands.AddCommand(getCmd)
	DocCommands.AddCommand(setCmd)
	DocCommands.AddCommand(helloCmd)
}

// setupStore selects the document store
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	seed, err := util.LoadSeed(viper.GetString("seed-file"))
	if err != nil {
		return err
	}

	handle := selector.New(selector.Config{
		Credentials: util.GetCredentials(),
		Seed:        seed,
	}).Init(cmd.Context())
	docStore = handle.Store
	return nil
}

// closeStore releases the remote client if there is one
func closeStore(_ *cobra.Command, _ []string) error {
	if closer, ok := docStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
