// Package commands implements the dragselect command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/dragselect/internal/config"
)

// configEnv names the config file when --config is not given.
const configEnv = "DRAGSELECT_CONFIG"

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flags shared by the root, run and config commands.
type runFlags struct {
	configPath  string
	items       int
	mode        string
	script      string
	logFile     string
	logLevel    string
	metricsAddr string
	record      string
	strict      bool
}

func newRootCmd() *cobra.Command {
	f := &runFlags{}
	root := &cobra.Command{
		Use:   "dragselect",
		Short: "Long-press drag selection over a scrolling grid",
		Long: `dragselect shows a grid of items in the terminal. Long-press an item
(or Shift+click) and drag to select; drag into the top or bottom band to
auto-scroll. Keys: q quit, m toggle range/path mode, c clear, Esc end drag.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, f)
		},
	}
	addRunFlags(root, f)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive grid (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, f)
		},
	}
	addRunFlags(run, f)

	root.AddCommand(run, newReplayCmd(), newConfigCmd(f), newVersionCmd())
	return root
}

// addRunFlags binds the settings flags. --config is shared with the config
// command; the rest become config overrides when set.
func addRunFlags(cmd *cobra.Command, f *runFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (.toml, .yaml); defaults to $"+configEnv)
	fs.IntVarP(&f.items, "items", "n", 0, "number of grid items")
	fs.StringVarP(&f.mode, "mode", "m", "", "selection mode: range or path")
	fs.StringVar(&f.script, "script", "", "Lua script defining selectable(index)")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&f.record, "record", "", "record the session to this trace file")
	fs.BoolVar(&f.strict, "strict", false, "reject unknown config keys")
}

// loadOptions turns the flags into config load options: file, then env,
// then flags that were set on the command line.
func (f *runFlags) loadOptions(cmd *cobra.Command) []config.Option {
	var opts []config.Option
	if path := f.path(); path != "" {
		opts = append(opts, config.WithFile(path))
	}
	if f.strict {
		opts = append(opts, config.WithStrict())
	}

	overrides := map[string]any{}
	changed := cmd.Flags().Changed
	if changed("items") {
		overrides["grid.items"] = f.items
	}
	if changed("mode") {
		overrides["engine.mode"] = f.mode
	}
	if changed("script") {
		overrides["script.path"] = f.script
	}
	if changed("log-file") {
		overrides["logging.file"] = f.logFile
	}
	if changed("log-level") {
		overrides["logging.level"] = f.logLevel
	}
	if changed("metrics-addr") {
		overrides["metrics.enabled"] = true
		overrides["metrics.addr"] = f.metricsAddr
	}
	if len(overrides) > 0 {
		opts = append(opts, config.WithOverrides(overrides))
	}
	return opts
}

func (f *runFlags) path() string {
	if f.configPath != "" {
		return f.configPath
	}
	return os.Getenv(configEnv)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
