package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <Type> <id> key=value...",
		Short: "Change attributes of an entity",
		Long: `Update applies key=value attributes to an existing entity and saves it.
id, created_at and updated_at cannot be changed. A password value is hashed.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			e, err := a.repo.Get(kind, args[1])
			if err != nil {
				return fmt.Errorf("update %s %s: %w", kind, args[1], err)
			}
			updated, err := applyParams(e, parseParams(args[2:]), false)
			if err != nil {
				return fmt.Errorf("update %s %s: %w", kind, args[1], err)
			}
			if err := a.repo.Save(updated); err != nil {
				return fmt.Errorf("save %s: %w", kind, err)
			}
			return writeJSON(cmd.OutOrStdout(), updated.ToMap(true))
		},
	}
}
