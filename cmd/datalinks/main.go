// Command datalinks records links between tabular datasets and propagates
// dataset and column renames to them.
package main

import "github.com/mesh-intelligence/datalinks/internal/cli"

func main() {
	cli.Execute()
}
