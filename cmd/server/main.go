package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/csjayzz/medlink-er-coordination/internal/api"
	"github.com/csjayzz/medlink-er-coordination/internal/api/health"
	"github.com/csjayzz/medlink-er-coordination/internal/metrics"
	"github.com/csjayzz/medlink-er-coordination/internal/scribe"
	"github.com/csjayzz/medlink-er-coordination/internal/session"
	"github.com/csjayzz/medlink-er-coordination/internal/storage"
	"github.com/csjayzz/medlink-er-coordination/internal/triage"
	"github.com/csjayzz/medlink-er-coordination/pkg/config"
)

var (
	configFile string
	httpAddr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "medlink-server",
	Short: "MedLink Server - ER pre-arrival coordination",
	Long: `MedLink Server links field medics with receiving emergency rooms.
Medics transmit structured pre-arrival alerts, by hand or through the
voice scribe, and the hospital watches a live severity-ordered queue.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("medlink-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	if httpAddr != "" {
		cfg.Server.HTTPAddress = httpAddr
	}
	cfg.Verbose = verbose

	jwtSecret := os.Getenv("MEDLINK_JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("MEDLINK_JWT_SECRET environment variable is required")
	}

	// Initialize storage
	var kv storage.KV
	var db *storage.SQLiteKV
	if cfg.Database.Path == "memory" {
		kv = storage.NewMemoryKV()
		log.Printf("using in-memory storage")
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		db = storage.NewSQLiteKV(cfg.Database.Path)
		if err := db.Open(); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		kv = db
		log.Printf("database initialized at %s", cfg.Database.Path)
	}

	persist := storage.NewAdapter(kv)
	board := triage.NewBoard(persist)
	sessions := session.NewManager(persist)

	// Voice scribe is optional; without a key the REST form still works.
	var chatClient scribe.ChatClient
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		clientCfg := openai.DefaultConfig(apiKey)
		if cfg.Scribe.BaseURL != "" {
			clientCfg.BaseURL = cfg.Scribe.BaseURL
		}
		chatClient = openai.NewClientWithConfig(clientCfg)
		log.Printf("voice scribe enabled with model %s", cfg.Scribe.Model)
	} else {
		log.Printf("OPENAI_API_KEY not set, voice scribe disabled")
	}
	scribeService := scribe.NewService(chatClient, cfg.Scribe.Model)

	// Build API server
	apiCfg := &api.Config{
		Address:           cfg.Server.HTTPAddress,
		JWTSecret:         []byte(jwtSecret),
		TokenTTL:          cfg.TokenTTL(),
		StreamMaxDuration: cfg.StreamMax(),
		Verbose:           cfg.Verbose,
	}

	srv, err := api.New(apiCfg, board, sessions, scribeService)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if db != nil {
		srv.RegisterHealthChecker(health.NewSQLiteChecker(db.DB()))
	}
	srv.RegisterHealthChecker(health.NewScribeChecker(scribeService.Configured))

	metricsSrv := metrics.NewServer(cfg.Server.MetricsAddress)
	ticker := triage.NewTicker(board, cfg.ETATickInterval())

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	log.Printf("starting medlink-server %s", config.Version)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gCtx)
	})
	g.Go(func() error {
		return ticker.Run(gCtx)
	})
	g.Go(func() error {
		return metricsSrv.Start()
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Printf("server stopped")
	return nil
}
