package cli

import (
	"github.com/spf13/cobra"

	"github.com/samdwyer/mazebatch/internal/presets"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the embedded presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := presets.Load()
			if err != nil {
				return err
			}
			for _, p := range all {
				printf(cmd, "%-8s %s\n", p.Name, p.Description)
			}
			return nil
		},
	}
}
