package doc

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/spf13/cobra"
)

var (
	timestampFields []string

	getCmd = &cobra.Command{
		Use:   "get [collection] [id]",
		Short: "Reads a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]
			fields, ok, err := docStore.Get(cmd.Context(), collection, id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("collection=%s, id=%s, found=false\n", collection, id)
				return nil
			}
			out, err := json.MarshalIndent(store.NormalizeFields(fields), "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("collection=%s, id=%s, found=true\n%s\n", collection, id, out)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [collection] [id] [field=value]...",
		Short: "Replaces a document with the given fields",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := util.ParseFields(args[2:], timestampFields)
			if err != nil {
				return err
			}
			if err := docStore.Set(cmd.Context(), args[0], args[1], fields); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	helloCmd = &cobra.Command{
		Use:   "hello",
		Short: "Resolves the hello message like the API does (repairs a missing message)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg := hello.NewResolver(docStore).FetchHello(cmd.Context())
			out, err := json.Marshal(msg)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)

func init() {
	setCmd.Flags().StringSliceVar(&timestampFields, "timestamp", nil, util.WrapString("Fields to set to the server timestamp (e.g. --timestamp created_at)"))
}
