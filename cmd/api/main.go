package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/api"
	"MiniShop/internal/auth"
	"MiniShop/internal/config"
	"MiniShop/internal/order"
	"MiniShop/internal/product"
	"MiniShop/internal/user"
	"MiniShop/pkg/kit"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAPI()
	if err != nil {
		panic(err)
	}

	service := "api"
	log := kit.NewLogger(service, cfg.Debug)
	defer func() { _ = log.Sync() }()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("create data dir", zap.Error(err), zap.String("dir", cfg.DataDir))
	}

	s := &api.Server{
		Log:      log,
		Users:    user.NewStore(cfg.DataDir),
		Products: product.NewStore(cfg.DataDir),
		Orders:   order.NewStore(cfg.DataDir),
		JWT:      auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL),
	}

	h := api.NewHandler(s, api.HTTPDeps{
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
