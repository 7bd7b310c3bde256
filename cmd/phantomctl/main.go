package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/config"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/middleware"
	"github.com/nexoragaming/phantomid/internal/service"
	"github.com/nexoragaming/phantomid/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "phantomctl",
	Short:         "Operator tools for PhantomID tournaments",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var operatorFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&operatorFlag, "operator", middleware.OperatorID, "user id the command acts as")
}

func main() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(bracketCmd)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: a migrated database and the services over it.
type env struct {
	db           *sqlx.DB
	operator     uuid.UUID
	tournaments  *service.TournamentService
	registration *service.RegistrationService
	brackets     *service.BracketService
	users        *service.UserService
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	operator, err := uuid.Parse(operatorFlag)
	if err != nil {
		return nil, fmt.Errorf("parse operator id: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(database, cfg.Migrations); err != nil {
		database.Close()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	tournamentStore := store.NewTournamentStore(database)

	return &env{
		db:           database,
		operator:     operator,
		tournaments:  service.NewTournamentService(database, tournamentStore, clock, logger),
		registration: service.NewRegistrationService(database, tournamentStore, clock, logger),
		brackets:     service.NewBracketService(database, tournamentStore, bracket.DefaultSource, clock, logger),
		users:        service.NewUserService(database, store.NewUserStore(database), clock),
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Args:  cobra.NoArgs,
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
