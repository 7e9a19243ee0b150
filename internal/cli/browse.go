package cli

import (
	"github.com/spf13/cobra"

	"github.com/accessolutions/tablehandler/internal/gridsource"
	"github.com/accessolutions/tablehandler/internal/handlers"
	"github.com/accessolutions/tablehandler/internal/tui"
)

func runBrowse(cmd *cobra.Command, opts *rootOptions, path string) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Shutdown() }()
	registerAdapters(rt)

	ctx := cmd.Context()
	mgr, err := rt.ResolveTable(ctx, handlers.Target{URI: path})
	if err != nil {
		return err
	}
	return tui.Browse(ctx, tui.Options{
		Runtime:     rt,
		Manager:     mgr,
		DisplaySize: opts.displaySize,
	})
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Browse a built-in sample table with merged cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Shutdown() }()
			registerAdapters(rt)

			ctx := cmd.Context()
			mgr, err := rt.ResolveTable(ctx, handlers.Target{Object: demoGrid()})
			if err != nil {
				return err
			}
			return tui.Browse(ctx, tui.Options{
				Runtime:     rt,
				Manager:     mgr,
				DisplaySize: opts.displaySize,
			})
		},
	}
}

// demoGrid is a small inventory table exercising spans and long cells.
func demoGrid() *gridsource.Static {
	g := gridsource.NewStatic("tablenav-demo", [][]string{
		{"Name", "Quantity", "Location", "Notes"},
		{"Bolt M4", "120", "Aisle 3", "zinc plated"},
		{"Bolt M6", "75", "Aisle 3", "check stock level before the next order window"},
		{"Washer", "400", "Aisle 4", ""},
		{"Spacer", "", "Aisle 4", "shared bin"},
	})
	// The two washer/spacer rows share a location bin.
	g.Merge(4, 3, 2, 1)
	return g
}
