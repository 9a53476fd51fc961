package cli

import (
	"github.com/spf13/cobra"

	"github.com/samdwyer/mazebatch/internal/output"
	"github.com/samdwyer/mazebatch/internal/ui"
)

func newPreviewCmd(_ *globalOptions) *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Browse the mazes of an output document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			grids, err := output.ReadGrids(args[0], width, height)
			if err != nil {
				return err
			}
			p, err := ui.NewPreview(grids)
			if err != nil {
				return err
			}
			p.Run()
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "width of flattened mazes (default: square)")
	cmd.Flags().IntVar(&height, "height", 0, "height of flattened mazes (default: square)")
	return cmd
}
