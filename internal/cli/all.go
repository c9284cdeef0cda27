package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all [Type]",
		Short: "Print every entity, or every entity of one type, as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := optionalKind(args)
			if err != nil {
				return err
			}
			es, err := a.repo.All(kind)
			if err != nil {
				return fmt.Errorf("all: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), redacted(es))
		},
	}
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count [Type]",
		Short: "Print the number of entities, or of entities of one type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := optionalKind(args)
			if err != nil {
				return err
			}
			n, err := a.repo.Count(kind)
			if err != nil {
				return fmt.Errorf("count: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
