package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <Type> <id>",
		Short: "Print one entity as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			e, err := a.repo.Get(kind, args[1])
			if err != nil {
				return fmt.Errorf("show %s %s: %w", kind, args[1], err)
			}
			return writeJSON(cmd.OutOrStdout(), e.ToMap(true))
		},
	}
}
