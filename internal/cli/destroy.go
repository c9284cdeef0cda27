package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) destroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <Type> <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			e, err := a.repo.Get(kind, args[1])
			if err != nil {
				return fmt.Errorf("destroy %s %s: %w", kind, args[1], err)
			}
			if err := a.repo.Delete(e); err != nil {
				return fmt.Errorf("destroy %s %s: %w", kind, args[1], err)
			}
			return a.repo.Commit()
		},
	}
}
