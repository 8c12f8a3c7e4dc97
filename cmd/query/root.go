package query

import (
	"fmt"

	"github.com/ValentinKolb/dDoc/api/client"
	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// QueryCmd fetches the hello message from a running server
var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running dDoc server for the hello message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := util.BindCommandFlags(cmd); err != nil {
			return err
		}

		c, err := client.NewClient(client.Config{
			Endpoint:      viper.GetString("url"),
			TimeoutSecond: viper.GetInt("timeout"),
			RetryCount:    viper.GetInt("retries"),
		})
		if err != nil {
			return err
		}

		msg, err := c.FetchHello(cmd.Context())
		if err != nil {
			return err
		}

		createdAt := "<unknown>"
		if msg.CreatedAt != nil {
			createdAt = *msg.CreatedAt
		}
		fmt.Printf("text=%q, created_at=%s\n", msg.Text, createdAt)
		return nil
	},
}

func init() {
	key := "url"
	QueryCmd.Flags().String(key, "http://localhost:8000/graphql", util.WrapString("The GraphQL endpoint of the dDoc server"))

	key = "timeout"
	QueryCmd.Flags().Int(key, 10, util.WrapString("The timeout in seconds of the client"))

	key = "retries"
	QueryCmd.Flags().Int(key, 3, util.WrapString("How many times to try the request"))
}
