// Package cli implements the datalinks command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datalinks/internal/logging"
	"github.com/mesh-intelligence/datalinks/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is the datalinks release, set at build time with
// -ldflags "-X github.com/mesh-intelligence/datalinks/internal/cli.Version=...".
var Version = "dev"

// rootFlags holds global flag values and the settings resolved from them.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
	logFormat string

	// Values read from config.yaml in PersistentPreRunE.
	configDataDir string
	backend       string
}

// NewRootCmd creates the top-level "datalinks" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "datalinks",
		Short: "Track links between tabular datasets",
		Long: "Datalinks records which columns join one dataset to another and keeps\n" +
			"those links current when datasets or columns are renamed.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.datalinks-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newLinkCmd(flags))
	root.AddCommand(newRenameCmd(flags))

	return root
}

// load reads config.yaml and configures logging. Flags win over config.
func (f *rootFlags) load(cmd *cobra.Command) error {
	configDir, err := f.resolveConfigDir()
	if err != nil {
		return err
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	f.configDataDir = v.GetString(cfgKeyDataDir)
	f.backend = v.GetString(cfgKeyBackend)

	level := f.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	format := f.logFormat
	if format == "" {
		format = v.GetString(cfgKeyLogFormat)
	}
	if err := logging.Setup(cmd.ErrOrStderr(), level, format); err != nil {
		return userError{err}
	}

	log.Debug().Str("config_dir", configDir).Str("config_file", v.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > DATALINKS_CONFIG_DIR env > platform default.
func (f *rootFlags) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(f.configDir)
}

// resolveDataDir returns the data directory:
// --data-dir flag > config.yaml data_dir > DATALINKS_DATA_DIR env > $(CWD)/.datalinks-db.
func (f *rootFlags) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(f.dataDir, f.configDataDir)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

// run executes root with args and maps the outcome to an exit code.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	fmt.Fprintln(root.ErrOrStderr(), "datalinks:", err)
	var ue userError
	if errors.As(err, &ue) {
		return exitUserError
	}
	return exitSysError
}
