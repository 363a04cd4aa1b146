package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/ai"
	"github.com/prepedge/prepedge/internal/ai/gemini"
	"github.com/prepedge/prepedge/internal/interview"
	"github.com/prepedge/prepedge/internal/logger"
	"github.com/prepedge/prepedge/internal/report"
	"github.com/prepedge/prepedge/internal/secrets"
	"github.com/prepedge/prepedge/internal/server"
	"github.com/prepedge/prepedge/internal/store"
)

const (
	driverMemory   = "memory"
	driverFile     = "file"
	driverPostgres = "postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prepedge HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, e.g. :8080")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the prepedge api", zap.String("version", version))

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the model client", zap.Error(err))
	}

	backend, closeStore, err := openStore(ctx, config.Storage)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	svc := buildService(completer, backend, logger)

	srvCfg := server.DefaultConfig()
	if config.Server.Listen != "" {
		srvCfg.Listen = config.Server.Listen
	}
	srvCfg.Debug = viper.GetBool("debug")

	srv := server.New(svc, srvCfg, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("prepedge api stopped")
}

// storeBackend is what every persistence driver provides.
type storeBackend interface {
	Interviews() interview.Store
	Reports() report.Store
}

func openStore(ctx context.Context, cfg *StorageConfig) (storeBackend, func(), error) {
	driver := strings.TrimSpace(strings.ToLower(cfg.Driver))
	if driver == "" {
		driver = driverMemory
	}

	switch driver {
	case driverMemory:
		return store.NewMemory(), func() {}, nil
	case driverFile:
		backend, err := store.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	case driverPostgres:
		backend, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func buildService(completer ai.Completer, backend storeBackend, log *zap.Logger) *interview.Service {
	grader := report.NewGrader(completer, log)
	reports := report.NewAccumulator(backend.Reports(), completer, log)
	return interview.NewService(completer, backend.Interviews(), grader, reports, log)
}

func newCompleter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	opts := []gemini.Option{}
	if cfg.Timeout > 0 {
		opts = append(opts, gemini.WithTimeout(cfg.Timeout))
	}
	if cfg.Gemini.MaxLogLength > 0 {
		opts = append(opts, gemini.WithMaxLogLength(cfg.Gemini.MaxLogLength))
	}

	return gemini.New(ctx, apiKey, cfg.Gemini.Model, log, opts...)
}
