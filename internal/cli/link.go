// Link commands: add, get, list, delete.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

func newLinkCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage links between datasets",
	}
	cmd.AddCommand(newLinkAddCmd(flags))
	cmd.AddCommand(newLinkGetCmd(flags))
	cmd.AddCommand(newLinkListCmd(flags))
	cmd.AddCommand(newLinkDeleteCmd(flags))
	return cmd
}

func newLinkAddCmd(flags *rootFlags) *cobra.Command {
	var (
		linkType string
		id       string
		columns  []string
	)

	cmd := &cobra.Command{
		Use:   "add <from-dataset> <to-dataset>",
		Short: "Create or replace a link",
		Long: `Add stores a link from one dataset to another.

Each --columns flag adds one alternative set of linking columns, written as
from=to pairs separated by commas. Pairs keep the order given.

Example:
  datalinks link add patients visits -c id=patient_id
  datalinks link add sales targets -t keyed -c year=fy,region=rc -c sku=sku`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := make([]types.ColumnMapping, 0, len(columns))
			for _, c := range columns {
				m, err := parseColumnMapping(c)
				if err != nil {
					return err
				}
				cols = append(cols, m)
			}
			link := types.NewLink(args[0], args[1], linkType, cols)

			return withLinks(flags, func(_ types.Catalog, links types.LinkTable) error {
				savedID, err := links.Set(id, link)
				if err != nil {
					return fmt.Errorf("set link: %w", err)
				}
				saved, err := links.Get(savedID)
				if err != nil {
					return fmt.Errorf("get saved link: %w", err)
				}
				return output(cmd, flags, saved, func(w io.Writer) { writeLink(w, saved) })
			})
		},
	}

	cmd.Flags().StringVarP(&linkType, "type", "t", types.LinkTypeKeyed, "link type tag")
	cmd.Flags().StringVar(&id, "id", "", "link ID to create or replace (default: new UUID v7)")
	cmd.Flags().StringArrayVarP(&columns, "columns", "c", nil, "column set as from=to[,from=to...] (repeatable)")
	return cmd
}

func newLinkGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a link by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLinks(flags, func(_ types.Catalog, links types.LinkTable) error {
				link, err := links.Get(args[0])
				if err != nil {
					return fmt.Errorf("link %q: %w", args[0], err)
				}
				return output(cmd, flags, link, func(w io.Writer) { writeLink(w, link) })
			})
		},
	}
}

func newLinkListCmd(flags *rootFlags) *cobra.Command {
	var (
		from, to, dataset, linkType string
		limit, offset               int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List links, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			for key, val := range map[string]string{
				"from_dataset": from,
				"to_dataset":   to,
				"dataset":      dataset,
				"link_type":    linkType,
			} {
				if val != "" {
					filter[key] = val
				}
			}
			if limit > 0 {
				filter["limit"] = limit
			}
			if offset > 0 {
				filter["offset"] = offset
			}

			return withLinks(flags, func(_ types.Catalog, links types.LinkTable) error {
				found, err := links.Fetch(filter)
				if err != nil {
					return fmt.Errorf("fetch links: %w", err)
				}
				return output(cmd, flags, found, func(w io.Writer) {
					for _, l := range found {
						writeLink(w, l)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "only links from this dataset")
	cmd.Flags().StringVar(&to, "to", "", "only links to this dataset")
	cmd.Flags().StringVar(&dataset, "dataset", "", "only links touching this dataset on either end")
	cmd.Flags().StringVarP(&linkType, "type", "t", "", "only links of this type")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of links")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of links to skip")
	return cmd
}

func newLinkDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a link by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLinks(flags, func(_ types.Catalog, links types.LinkTable) error {
				if err := links.Delete(args[0]); err != nil {
					return fmt.Errorf("link %q: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted link %s\n", args[0])
				return nil
			})
		},
	}
}
