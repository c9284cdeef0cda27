package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/config"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Initialize configuration and storage",
		Long:        "Write config.yaml if it is missing, create the data directory and prepare the storage backend.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStorage: "true"},
		RunE:        a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	wrote, err := config.WriteDefault(a.configDir, a.settings)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := a.open(); err != nil {
		return err
	}
	if err := a.repo.Commit(); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	if wrote {
		fmt.Fprintf(out, "wrote %s\n", config.Path(a.configDir))
	}
	fmt.Fprintf(out, "hbnb initialized (%s storage, data in %s)\n", a.settings.StorageType, a.settings.DataDir)
	return nil
}
