package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/engine"
)

func (a *app) searchCmd() *cobra.Command {
	var f engine.SearchFilter
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find places by state, city and amenities",
		Long: `Search prints the places located in any of the given states or cities
(every place when none is given) that have every given amenity.

Example:
  hbnb search --state 421a55f4 --amenity 017ec502 --amenity 0d375b05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			places, err := a.repo.SearchPlaces(f)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), redacted(places))
		},
	}
	cmd.Flags().StringSliceVar(&f.States, "state", nil, "state id (repeatable)")
	cmd.Flags().StringSliceVar(&f.Cities, "city", nil, "city id (repeatable)")
	cmd.Flags().StringSliceVar(&f.Amenities, "amenity", nil, "amenity id (repeatable)")
	return cmd
}
