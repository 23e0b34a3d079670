package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/config"
	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/store"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "drdscore",
	Short: "Digital readiness maturity scoring",
	Long: `drdscore records DRD maturity assessments. Each axis is rated on a
seven level scale, either directly or through its areas, with separate
actual and target levels.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DRD_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/drdscore/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rationaleCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (file or DRD_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return cfg.DBPath()
}

// openStore opens the configured database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadCatalog returns the configured catalog or the built-in one.
func loadCatalog() (*drd.Catalog, error) {
	if cfg.Catalog == "" {
		return drd.Default()
	}
	f, err := os.Open(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return drd.LoadCatalog(f)
}

// withService opens the store and runs fn with an assessment service.
func withService(cmd *cobra.Command, fn func(s *store.Store, svc *assessment.Service) error) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := assessment.NewService(cat, s.AssessmentRepo(), s.EventRepo(), assessment.Options{
		Logger:        logger,
		KeepSnapshots: cfg.KeepSnapshots,
	})
	if err != nil {
		return err
	}
	return fn(s, svc)
}
