package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func (a *app) linkCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "link <place_id> <amenity_id>",
		Short: "Link an amenity to a place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.repo.Get(types.KindPlace, args[0])
			if err != nil {
				return fmt.Errorf("place %s: %w", args[0], err)
			}
			am, err := a.repo.Get(types.KindAmenity, args[1])
			if err != nil {
				return fmt.Errorf("amenity %s: %w", args[1], err)
			}
			place, amenity := p.(*types.Place), am.(*types.Amenity)
			if remove {
				err = a.repo.UnlinkAmenity(place, amenity)
			} else {
				err = a.repo.LinkAmenity(place, amenity)
			}
			if err != nil {
				return fmt.Errorf("link %s %s: %w", args[0], args[1], err)
			}
			return writeJSON(cmd.OutOrStdout(), place.ToMap(true))
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "unlink instead of link")
	return cmd
}
