// Package cli implements the hbnb command-line console.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/config"
	"github.com/mesh-intelligence/hbnb/internal/engine"
	"github.com/mesh-intelligence/hbnb/internal/logging"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// skipStorage marks commands that run without an open store.
const skipStorage = "skip-storage"

// app holds flag values and the per-invocation state shared by commands.
type app struct {
	configDir string
	dataDir   string

	settings config.Settings
	log      zerolog.Logger
	store    types.Storage
	repo     *engine.Repository
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hbnb",
		Short: "Console for the hbnb storage engine",
		Long: `hbnb creates, inspects, updates and destroys States, Cities, Amenities,
Users, Places and Reviews in the configured storage (JSON file or database).`,
		Version:            Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.teardown() },
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: ./.hbnb or the platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: the platform data dir)")

	root.AddCommand(
		a.versionCmd(),
		a.initCmd(),
		a.createCmd(),
		a.showCmd(),
		a.allCmd(),
		a.countCmd(),
		a.updateCmd(),
		a.destroyCmd(),
		a.linkCmd(),
		a.searchCmd(),
	)
	return root
}

// NewRootCmd creates the top-level "hbnb" command with every subcommand
// registered.
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

// Run executes the console with args, writing command output to stdout.
// The store is detached before Run returns, even when a command fails.
func Run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.teardown()
	return root.Execute()
}

// Execute runs the console with the process arguments and exits with the
// matching code.
func Execute() {
	err := Run(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		os.Exit(exitSuccess)
	}
	fmt.Fprintln(os.Stderr, "hbnb:", err)
	if errors.Is(err, types.ErrPersistence) {
		os.Exit(exitSysError)
	}
	os.Exit(exitUserError)
}

// setup loads configuration, builds the logger and, unless the command is
// marked skipStorage, opens the store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, settings.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	settings.DataDir = dataDir
	a.settings = settings

	log, err := logging.New(settings.Log)
	if err != nil {
		return fmt.Errorf("open log output: %w", err)
	}
	a.log = log

	if cmd.Annotations[skipStorage] != "" {
		return nil
	}
	return a.open()
}

func (a *app) open() error {
	if err := os.MkdirAll(a.settings.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	store, err := engine.Open(a.settings.Config, engine.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.store = store
	a.repo = engine.NewRepository(store)
	return nil
}

// teardown ends the request boundary on the repository's session and
// releases the store. Safe to call more than once.
func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	store, repo := a.store, a.repo
	a.store, a.repo = nil, nil
	closeErr := repo.Teardown()
	detachErr := store.Detach()
	return errors.Join(closeErr, detachErr)
}
