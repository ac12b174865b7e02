package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/auth"
	"github.com/tteodorogustavo/athlos/internal/metrics"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/internal/server"
	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const exercicioCacheSize = 256

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		if err := cfg.RequireServer(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		migrate, _ := cmd.Flags().GetBool("migrate")
		db, err := openDB(ctx, migrate)
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewCollector()
		if err := collector.Register(registry); err != nil {
			return err
		}

		repos := repository.New(db)
		exercicios := service.NewExercicioService(repos.Exercicios, exercicioCacheSize, cfg.CatalogCacheTTL)
		tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

		router, err := server.NewRouter(server.Services{
			Auth:       service.NewAuthService(repos.Users, tokens),
			Academias:  service.NewAcademiaService(repos),
			Personais:  service.NewPersonalService(repos),
			Alunos:     service.NewAlunoService(repos),
			Treinos:    service.NewTreinoService(repos),
			Exercicios: exercicios,
			Stats:      service.NewStatsService(repos, collector),
		}, server.Options{
			CORSOrigins:     cfg.CORSOrigins,
			TrustedProxies:  cfg.TrustedProxies,
			LoginRatePerMin: cfg.LoginRatePerMin,
			Metrics:         collector,
			Gatherer:        registry,
		})
		if err != nil {
			return err
		}

		utils.Log.Info("Starting Athlos API",
			zap.String("addr", cfg.HTTPAddr),
			zap.Strings("cors_origins", cfg.CORSOrigins),
			zap.Int("login_rate_per_min", cfg.LoginRatePerMin),
			zap.Strings("trusted_proxies", cfg.TrustedProxies),
			zap.Duration("catalog_cache_ttl", cfg.CatalogCacheTTL),
		)
		return server.Run(ctx, cfg.HTTPAddr, router)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().Bool("migrate", true, "migrate the schema before serving")
}
