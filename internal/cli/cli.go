package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/accessolutions/tablehandler/internal/gridsource"
	"github.com/accessolutions/tablehandler/internal/runtime"
)

var (
	version = "v0.1.0"
	commit  = ""
	date    = ""
)

type rootOptions struct {
	catalogPath string
	prefsPath   string
	displaySize int
}

func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tablenav [file]",
		Short:         "Browse CSV and TSV tables on a simulated braille display",
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBrowse(cmd, opts, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Override table config catalog path (default: OS user config dir)")
	cmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "Override preferences file path (default: OS user config dir)")
	cmd.PersistentFlags().IntVar(&opts.displaySize, "display", 40, "Width of the simulated braille display")

	cmd.AddCommand(
		newCatalogCmd(opts),
		newForgetCmd(opts),
		newDemoCmd(opts),
	)

	return cmd
}

// newRuntime opens the stores for a command, logging to stderr.
func newRuntime(opts *rootOptions) (*runtime.Runtime, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	return runtime.New(runtime.Options{
		Logger:      logger,
		CatalogPath: opts.catalogPath,
		PrefsPath:   opts.prefsPath,
	})
}

// registerAdapters installs the built-in table integrations.
func registerAdapters(rt *runtime.Runtime) {
	rt.RegisterAdapter(gridsource.FileAdapter(rt.Tables), false)
	rt.RegisterAdapter(gridsource.StaticAdapter(rt.Tables), false)
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
