// Rename commands propagate dataset and column renames to stored links.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// renameResult is the --json output of the rename commands.
type renameResult struct {
	Dataset string `json:"dataset"`
	Column  string `json:"column,omitempty"`
	NewName string `json:"new_name"`
	Updated int    `json:"updated"`
}

func newRenameCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Propagate a dataset or column rename to every link",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dataset <old-name> <new-name>",
		Short: "Rename a dataset on every link that references it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLinks(flags, func(catalog types.Catalog, _ types.LinkTable) error {
				n, err := catalog.RenameDataset(args[0], args[1])
				if err != nil {
					return err
				}
				res := renameResult{Dataset: args[0], NewName: args[1], Updated: n}
				return output(cmd, flags, res, func(w io.Writer) {
					fmt.Fprintf(w, "Renamed dataset %s to %s on %d link(s)\n", args[0], args[1], n)
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "column <dataset> <old-column> <new-column>",
		Short: "Rename a dataset column on every link that references it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLinks(flags, func(catalog types.Catalog, _ types.LinkTable) error {
				n, err := catalog.RenameColumn(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				res := renameResult{Dataset: args[0], Column: args[1], NewName: args[2], Updated: n}
				return output(cmd, flags, res, func(w io.Writer) {
					fmt.Fprintf(w, "Renamed column %s.%s to %s on %d link(s)\n", args[0], args[1], args[2], n)
				})
			})
		},
	})
	return cmd
}
