package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/mazebatch/internal/maze"
	"github.com/samdwyer/mazebatch/internal/output"
)

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var (
		width, height int
		count         int
		allowLoops    bool
	)

	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check that an output document parses and every maze is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			_, logger := opts.logger(cmd, cfg.Log.Level)

			grids, err := output.ReadGrids(args[0], width, height)
			if err != nil {
				return err
			}
			if count > 0 && len(grids) != count {
				return fmt.Errorf("%s: %d mazes, want %d", args[0], len(grids), count)
			}

			minLen, maxLen := -1, -1
			for i, g := range grids {
				check := g.IsPerfect
				if allowLoops {
					check = g.Validate
				}
				if err := check(); err != nil {
					return fmt.Errorf("%s: maze %d: %w", args[0], i, err)
				}
				n := g.SolutionLength()
				if n < 0 {
					return fmt.Errorf("%s: maze %d: %w: exit unreachable", args[0], i, maze.ErrNotPerfect)
				}
				if minLen < 0 || n < minLen {
					minLen = n
				}
				if n > maxLen {
					maxLen = n
				}
			}

			logger.Debug().Str("path", args[0]).Int("mazes", len(grids)).Msg("document verified")
			if len(grids) > 0 {
				printf(cmd, "%s: %d mazes of %dx%d ok, solution length %d..%d\n",
					args[0], len(grids), grids[0].Width, grids[0].Height, minLen, maxLen)
			} else {
				printf(cmd, "%s: empty document\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "width of flattened mazes (default: square)")
	cmd.Flags().IntVar(&height, "height", 0, "height of flattened mazes (default: square)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "expected number of mazes")
	cmd.Flags().BoolVar(&allowLoops, "allow-loops", false, "accept imperfect mazes")
	return cmd
}
