package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"placementapi/config"
	"placementapi/db"
	qhttp "placementapi/http"
	"placementapi/logger"
	"placementapi/ml"
)

type options struct {
	configPath     string
	port           int
	modelPath      string
	scalerPath     string
	allowedOrigins []string
	historyPath    string
}

// NewRootCommand returns the placementapi command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placementapi",
		Short: "serve placement predictions over http",
		Long: `placementapi loads a fitted scaler and classifier at startup and
serves POST /predict, answering whether a student with the given CGPA and IQ
is predicted to be placed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "path of the yaml config file")
	flags.IntVar(&opts.port, "port", 0, "listen port, overrides server.port")
	flags.StringVar(&opts.modelPath, "model", "", "model artifact path, overrides artifacts.model_path")
	flags.StringVar(&opts.scalerPath, "scaler", "", "scaler artifact path, overrides artifacts.scaler_path")
	flags.StringSliceVar(&opts.allowedOrigins, "allowed-origin", nil, "CORS origin allowed to call the api, repeatable; overrides server.allowed_origins")
	flags.StringVar(&opts.historyPath, "history", "", "sqlite path for prediction history, overrides history.path")
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "placementapi: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if opts.modelPath != "" {
		cfg.Artifacts.ModelPath = opts.modelPath
	}
	if opts.scalerPath != "" {
		cfg.Artifacts.ScalerPath = opts.scalerPath
	}
	if len(opts.allowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = opts.allowedOrigins
	}
	if opts.historyPath != "" {
		cfg.History.Path = opts.historyPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer log.Sync()

	server, closeFn, err := buildServer(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer closeFn()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := server.Stop(); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	log.Info("exiting")
	return nil
}

// buildServer loads the artifacts and wires the server. Artifact failures
// are returned before anything listens.
func buildServer(cfg *config.Config, log *zap.Logger) (*qhttp.Server, func(), error) {
	artifacts, err := ml.LoadArtifacts(cfg.Artifacts.ModelPath, cfg.Artifacts.ScalerPath)
	if err != nil {
		return nil, nil, err
	}
	predictor := ml.NewPredictorFromArtifacts(artifacts)
	log.Info("artifacts loaded",
		zap.String("model_path", cfg.Artifacts.ModelPath),
		zap.String("model_kind", predictor.ModelKind()),
		zap.String("scaler_path", cfg.Artifacts.ScalerPath),
		zap.String("scaler_kind", predictor.ScalerKind()),
	)

	opts := qhttp.Options{
		Predictor: predictor,
		Logger:    log,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}

	closeFn := func() {}
	if cfg.History.Path != "" {
		store, err := db.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open prediction history %s", cfg.History.Path)
		}
		log.Info("prediction history enabled", zap.String("path", cfg.History.Path))
		opts.History = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				log.Warn("close prediction history failed", zap.Error(err))
			}
		}
	}

	return qhttp.NewServer(cfg.Server, opts), closeFn, nil
}
