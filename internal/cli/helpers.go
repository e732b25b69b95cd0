// Shared helpers for datalinks CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	pkgsqlite "github.com/mesh-intelligence/datalinks/pkg/sqlite"
	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// userError marks failures caused by the caller's input; they exit with
// exitUserError instead of exitSysError.
type userError struct {
	err error
}

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

// classify wraps err as a userError when it is one of the sentinel errors a
// caller can fix by changing the arguments.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown):
		return userError{err}
	default:
		return err
	}
}

// attachCatalog resolves the data directory and attaches a catalog to it.
// The caller must defer catalog.Detach().
func attachCatalog(flags *rootFlags) (types.Catalog, error) {
	dataDir, err := flags.resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	catalog := pkgsqlite.NewBackend()
	if err := catalog.Attach(types.Config{Backend: flags.backend, DataDir: dataDir}); err != nil {
		return nil, classify(fmt.Errorf("attach catalog: %w", err))
	}
	return catalog, nil
}

// withLinks attaches a catalog, hands its link table to fn and detaches.
func withLinks(flags *rootFlags, fn func(types.Catalog, types.LinkTable) error) error {
	catalog, err := attachCatalog(flags)
	if err != nil {
		return err
	}
	defer catalog.Detach()

	links, err := catalog.Links()
	if err != nil {
		return err
	}
	return classify(fn(catalog, links))
}

// parseColumnMapping parses "from=to[,from=to...]" into an ordered mapping.
func parseColumnMapping(s string) (types.ColumnMapping, error) {
	m := types.ColumnMapping{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, ok := strings.Cut(part, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, userError{fmt.Errorf("invalid column pair %q (expected from=to)", part)}
		}
		m = append(m, types.ColumnPair{From: from, To: to})
	}
	if len(m) == 0 {
		return nil, userError{fmt.Errorf("empty column mapping %q", s)}
	}
	return m, nil
}

// formatColumns renders mappings as "a=b,c=d | e=f".
func formatColumns(cols []types.ColumnMapping) string {
	sets := make([]string, 0, len(cols))
	for _, m := range cols {
		pairs := make([]string, 0, len(m))
		for _, p := range m {
			pairs = append(pairs, p.From+"="+p.To)
		}
		sets = append(sets, strings.Join(pairs, ","))
	}
	return strings.Join(sets, " | ")
}

// writeLink prints one stored link as a single text line.
func writeLink(w io.Writer, l *types.StoredLink) {
	fmt.Fprintf(w, "%s  %s -> %s  [%s]  %s\n",
		l.LinkID, l.FromDataset, l.ToDataset, l.LinkType, formatColumns(l.LinkColumns))
}

// output writes v as indented JSON in --json mode, otherwise calls text.
func output(cmd *cobra.Command, flags *rootFlags, v any, text func(io.Writer)) error {
	w := cmd.OutOrStdout()
	if !flags.jsonMode {
		text(w)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
