package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	nodestoreapi "github.com/permanode/permastore/internal/api/grpc/nodestore"
	"github.com/permanode/permastore/internal/hexdata"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		lowerRaw   string
		upperRaw   string
		filterText string
		pageSize   int32
		pageToken  string
		showData   bool
	)

	cmd := &cobra.Command{
		Use:   "list <scope>",
		Short: "List a scope's nodes",
		Long: `List nodes in a scope, ordered by id.

The range bounds are inclusive. Filters use AIP-160 syntax over the
fields id, size, and payer.

Example:
  permastore list alice
  permastore list alice --lower 10 --upper 99
  permastore list alice --filter 'size >= 1024'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := nodestoreapi.ListNodesQuery{
				Filter:    filterText,
				PageSize:  pageSize,
				PageToken: pageToken,
			}
			if lowerRaw != "" {
				lower, err := parseNodeID(lowerRaw)
				if err != nil {
					return err
				}
				query.LowerID = lower
			}
			if upperRaw != "" {
				upper, err := parseNodeID(upperRaw)
				if err != nil {
					return err
				}
				query.UpperID = upper
				query.HasUpper = true
			}

			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			page, err := client.ListNodes(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBYTES\tPAYER\tUPDATED")
			for _, node := range page.Nodes {
				line := fmt.Sprintf("%d\t%d\t%s\t%s", node.ID, len(node.Data), node.Payer, node.UpdatedAt.Format("2006-01-02 15:04:05"))
				if showData {
					line += "\t" + hexdata.Encode(node.Data)
				}
				fmt.Fprintln(w, line)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if page.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next page token: %s\n", page.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lowerRaw, "lower", "", "inclusive lower id bound")
	cmd.Flags().StringVar(&upperRaw, "upper", "", "inclusive upper id bound")
	cmd.Flags().StringVar(&filterText, "filter", "", "AIP-160 filter over id, size, payer")
	cmd.Flags().Int32Var(&pageSize, "page-size", 0, "nodes per page (server default when 0)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "resume from a previous next page token")
	cmd.Flags().BoolVar(&showData, "data", false, "include node data as hex")

	return cmd
}
