package main

import (
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/config"
	"MiniShop/internal/front"
	"MiniShop/pkg/kit"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFront()
	if err != nil {
		panic(err)
	}

	service := "front"
	log := kit.NewLogger(service, cfg.Debug)
	defer func() { _ = log.Sync() }()

	s := front.NewServer(
		log,
		front.NewClient(cfg.APIBaseURL),
		front.NewSessions(cfg.SessionKey),
	)

	h := front.NewHandler(s, front.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
