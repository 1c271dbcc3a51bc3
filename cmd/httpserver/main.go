package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yashbavkar26/agri-backend/api/certhandler"
	"github.com/yashbavkar26/agri-backend/audit"
	"github.com/yashbavkar26/agri-backend/certifier"
	"github.com/yashbavkar26/agri-backend/cmd/flags"
	"github.com/yashbavkar26/agri-backend/common"
	"github.com/yashbavkar26/agri-backend/httpserver"
	"github.com/yashbavkar26/agri-backend/interfaces"
	"github.com/yashbavkar26/agri-backend/kms"
	"github.com/yashbavkar26/agri-backend/renderer"
	"github.com/yashbavkar26/agri-backend/storage"
)

var serviceFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Value: "",
		Usage: "optional YAML config file; explicitly set flags override its values",
	},
	&cli.StringFlag{
		Name:    "listen-addr",
		Value:   "127.0.0.1:8080",
		Usage:   "address to listen on for API",
		EnvVars: []string{"AGRI_LISTEN_ADDR"},
	},
	&cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "127.0.0.1:8090",
		Usage:   "address to listen on for Prometheus metrics",
		EnvVars: []string{"AGRI_METRICS_ADDR"},
	},
	&cli.StringFlag{
		Name:    "key-dir",
		Value:   "./data/keys",
		Usage:   "directory holding the PEM signing key pair; bootstrapped on first start",
		EnvVars: []string{"AGRI_KEY_DIR"},
	},
	&cli.StringFlag{
		Name:    "artifacts-dir",
		Value:   "./data/artifacts",
		Usage:   "directory for rendered certificate artifacts",
		EnvVars: []string{"AGRI_ARTIFACTS_DIR"},
	},
	&cli.StringFlag{
		Name:    "audit-db",
		Value:   "",
		Usage:   "path of the SQLite audit database; audit events go to the log when empty",
		EnvVars: []string{"AGRI_AUDIT_DB"},
	},
	&cli.StringFlag{
		Name:    "jwt-secret",
		Value:   "",
		Usage:   "HMAC secret for optional bearer-token identity; disabled when empty",
		EnvVars: []string{"AGRI_JWT_SECRET"},
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:   "advisory-server",
		Usage:  "Serve the advisory certificate API",
		Flags:  append(serviceFlags, flags.LoggingFlags...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	cfg := &common.ServiceConfig{
		ListenAddr:   cCtx.String("listen-addr"),
		MetricsAddr:  cCtx.String("metrics-addr"),
		KeyDir:       cCtx.String("key-dir"),
		ArtifactsDir: cCtx.String("artifacts-dir"),
		AuditDBPath:  cCtx.String("audit-db"),
		JWTSecret:    cCtx.String("jwt-secret"),
		EnablePprof:  cCtx.Bool("pprof"),
	}

	if configPath := cCtx.String("config"); configPath != "" {
		fileCfg, err := common.LoadServiceConfig(configPath)
		if err != nil {
			logger.Error("Failed to load config file", "err", err, "path", configPath)
			return err
		}
		mergeConfig(cCtx, cfg, fileCfg)
	}

	// Key bootstrap is fatal: without key material no certificate can ever
	// be issued, so the process must not come up degraded.
	keyManager := kms.NewFileKMS(cfg.KeyDir, logger)
	if err := keyManager.Bootstrap(); err != nil {
		logger.Error("Signing key bootstrap failed", "err", err, "dir", cfg.KeyDir)
		return err
	}

	artifacts, err := storage.NewFileBackend(cfg.ArtifactsDir, logger)
	if err != nil {
		logger.Error("Failed to set up artifact storage", "err", err)
		return err
	}

	var recorder interfaces.AuditRecorder
	if cfg.AuditDBPath != "" {
		sqliteRecorder, err := audit.OpenSQLite(cfg.AuditDBPath)
		if err != nil {
			logger.Error("Failed to open audit database", "err", err, "path", cfg.AuditDBPath)
			return err
		}
		defer sqliteRecorder.Close()
		recorder = sqliteRecorder
		logger.Info("Audit events recorded to SQLite", "path", cfg.AuditDBPath)
	} else {
		recorder = &audit.LogRecorder{Log: logger}
		logger.Info("No audit database configured, audit events go to the log")
	}

	issuer := certifier.NewIssuer(
		certifier.NewSigner(keyManager),
		renderer.NewFileRenderer(artifacts, logger),
		recorder,
		logger,
	)
	handler := certhandler.NewHandler(issuer, certifier.NewVerifier(keyManager), keyManager, artifacts, logger)

	srvCfg := &httpserver.HTTPServerConfig{
		ListenAddr:               cfg.ListenAddr,
		MetricsAddr:              cfg.MetricsAddr,
		Log:                      logger,
		EnablePprof:              cfg.EnablePprof,
		DrainDuration:            time.Duration(cCtx.Int64("drain-seconds")) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
	if cfg.JWTSecret != "" {
		srvCfg.JWTSecret = []byte(cfg.JWTSecret)
		logger.Info("Bearer-token identity enabled")
	}

	server, err := httpserver.New(srvCfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server")
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}

// mergeConfig lets file values fill in settings whose flags were left at
// their defaults; explicitly set flags always win.
func mergeConfig(cCtx *cli.Context, cfg, fileCfg *common.ServiceConfig) {
	if !cCtx.IsSet("listen-addr") && fileCfg.ListenAddr != "" {
		cfg.ListenAddr = fileCfg.ListenAddr
	}
	if !cCtx.IsSet("metrics-addr") && fileCfg.MetricsAddr != "" {
		cfg.MetricsAddr = fileCfg.MetricsAddr
	}
	if !cCtx.IsSet("key-dir") && fileCfg.KeyDir != "" {
		cfg.KeyDir = fileCfg.KeyDir
	}
	if !cCtx.IsSet("artifacts-dir") && fileCfg.ArtifactsDir != "" {
		cfg.ArtifactsDir = fileCfg.ArtifactsDir
	}
	if !cCtx.IsSet("audit-db") && fileCfg.AuditDBPath != "" {
		cfg.AuditDBPath = fileCfg.AuditDBPath
	}
	if !cCtx.IsSet("jwt-secret") && fileCfg.JWTSecret != "" {
		cfg.JWTSecret = fileCfg.JWTSecret
	}
	if !cCtx.IsSet("pprof") {
		cfg.EnablePprof = fileCfg.EnablePprof
	}
}
