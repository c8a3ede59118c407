package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/latoulicious/mtgmeta/internal/config"
	"github.com/latoulicious/mtgmeta/internal/server"
	"github.com/latoulicious/mtgmeta/internal/version"
	"github.com/latoulicious/mtgmeta/pkg/database"
	"github.com/latoulicious/mtgmeta/pkg/database/repository"
	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/handler"
	"github.com/latoulicious/mtgmeta/pkg/mtg/service"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	forceFlag bool
	clearFlag bool
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mtgmeta",
		Short:         "MTG set and symbol metadata aggregation service",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version.Get().String(),
	}
	root.AddCommand(serveCommand())
	root.AddCommand(syncCommand())
	return root
}

// initialize loads the environment, connects the database and wires the
// full service graph.
func initialize() (*mtg.Service, *database.DatabaseManager, *config.Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		// Continue execution as .env file might not exist in production
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Printf("Warning: %v, keeping default level", err)
	}

	db, err := database.NewGormDBFromConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	manager, err := database.NewDatabaseManager(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	svc := mtg.NewService(
		repository.NewSetRepository(db),
		repository.NewSymbolRepository(db),
		repository.NewMetaRepository(db),
		handler.NewScryfallClient(cfg.CacheDir()),
		handler.NewMtgjsonClient(cfg.CacheDir()),
		handler.NewVectorsClient(cfg.CacheDir(), cfg.SymbolsDir()),
		mtg.Locations{
			APIURL:     cfg.APIURL,
			CacheDir:   cfg.CacheDir(),
			SymbolsDir: cfg.SymbolsDir(),
		},
	)
	return svc, manager, cfg, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, manager, cfg, err := initialize()
			if err != nil {
				return err
			}
			defer manager.Close()

			logger := logging.GetGlobalLoggerFactory().CreateLogger("main")
			srv := server.NewServer(svc, service.NewSymbolService(svc))

			// Scheduled full refresh, if configured
			var scheduler *cron.Cron
			if cfg.SyncSchedule != "" {
				sync := service.NewSyncService(svc)
				scheduler = cron.New()
				if _, err := scheduler.AddFunc(cfg.SyncSchedule, func() {
					sync.UpdateAll(false)
				}); err != nil {
					return fmt.Errorf("invalid sync schedule %q: %w", cfg.SyncSchedule, err)
				}
				scheduler.Start()
				logger.Info("Scheduled sync enabled", map[string]interface{}{
					"schedule": cfg.SyncSchedule,
				})
			}

			httpServer := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: srv.Router,
			}
			go func() {
				logger.Info("Server listening", map[string]interface{}{
					"port": cfg.Port,
				})
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Server stopped unexpectedly", err, nil)
				}
			}()

			// Wait for a termination signal, then drain
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			if scheduler != nil {
				scheduler.Stop()
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return httpServer.Shutdown(ctx)
		},
	}
}

func syncCommand() *cobra.Command {
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize upstream data into the local store",
	}
	sync.PersistentFlags().BoolVar(&forceFlag, "force", false, "Re-sync even when versions match")
	sync.PersistentFlags().BoolVar(&clearFlag, "clear", false, "Delete every Set row before syncing")

	run := func(fn func(*service.SyncService, bool) []*mtg.SyncResult) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, manager, _, err := initialize()
			if err != nil {
				return err
			}
			defer manager.Close()

			if clearFlag {
				if err := manager.ClearSets(); err != nil {
					return fmt.Errorf("failed to clear sets: %w", err)
				}
				fmt.Println("Set table cleared")
			}

			results := fn(service.NewSyncService(svc), forceFlag)
			for _, result := range results {
				printSyncResult(result)
			}
			return nil
		}
	}

	one := func(pick func(*service.SyncService, bool) *mtg.SyncResult) func(*cobra.Command, []string) error {
		return run(func(ss *service.SyncService, force bool) []*mtg.SyncResult {
			return []*mtg.SyncResult{pick(ss, force)}
		})
	}

	sync.AddCommand(
		&cobra.Command{
			Use:   "mtgjson",
			Short: "Refresh MTGJSON bulk data",
			RunE:  one(func(ss *service.SyncService, f bool) *mtg.SyncResult { return ss.SyncMtgjson(f) }),
		},
		&cobra.Command{
			Use:   "scryfall",
			Short: "Refresh the Scryfall set list",
			RunE:  one(func(ss *service.SyncService, f bool) *mtg.SyncResult { return ss.SyncScryfall(f) }),
		},
		&cobra.Command{
			Use:   "sets",
			Short: "Rebuild the unified Set table",
			RunE:  one(func(ss *service.SyncService, f bool) *mtg.SyncResult { return ss.SyncSets(f) }),
		},
		&cobra.Command{
			Use:   "symbols",
			Short: "Rebuild the symbol catalog from the latest manifest",
			RunE:  one(func(ss *service.SyncService, f bool) *mtg.SyncResult { return ss.SyncSymbols(f) }),
		},
		&cobra.Command{
			Use:   "all",
			Short: "Run every sync in order",
			RunE:  run(func(ss *service.SyncService, f bool) []*mtg.SyncResult { return ss.UpdateAll(f) }),
		},
	)
	return sync
}

// printSyncResult prints a human-readable summary for one resource family.
func printSyncResult(result *mtg.SyncResult) {
	switch result.Status {
	case mtg.SyncSkipped:
		fmt.Printf("%s: already up-to-date\n", result.Resource)
	case mtg.SyncFailed:
		fmt.Printf("%s: FAILED (%v)\n", result.Resource, result.Err)
	default:
		fmt.Printf("%s: synced (%d succeeded, %d failed)\n",
			result.Resource, result.Succeeded, result.Failed)
	}
	for _, reason := range result.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
}
