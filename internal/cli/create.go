package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <Type> [key=value...]",
		Short: "Create an entity and print its id",
		Long: `Create builds a new entity of the given type, applies the key=value
attributes and saves it. Values are JSON when they parse as JSON, raw text
otherwise; underscores in quoted strings become spaces.

Example:
  hbnb create State name="California"
  hbnb create Place city_id=0001 user_id=0001 name="My_little_house" number_rooms=4 latitude=37.77
  hbnb create User email="ada@example.com" password="secret"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			e, err := applyParams(types.New(kind), parseParams(args[1:]), true)
			if err != nil {
				return fmt.Errorf("create %s: %w", kind, err)
			}
			if err := a.repo.Save(e); err != nil {
				return fmt.Errorf("save %s: %w", kind, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Meta().ID)
			return nil
		},
	}
}
