package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"thriftshop/internal/config"
	"thriftshop/internal/http/handlers"
	applog "thriftshop/internal/log"
	"thriftshop/internal/repos"
	"thriftshop/internal/services"
	"thriftshop/internal/sheet"
)

// session state and cached snapshots in redis expire after this long without a write
const redisTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()

	// Optional file logging
	var extra io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			extra = f
		}
	}
	if err := applog.Init(cfg.AppEnv, extra); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer applog.Sync()
	lg := applog.L()

	ctx := context.Background()
	var kv repos.KV
	if cfg.RedisURL != "" {
		rkv, err := repos.NewRedisKV(ctx, cfg.RedisURL, redisTTL)
		if err != nil {
			lg.Fatal("redis_connect", zap.Error(err))
		}
		defer rkv.Close()
		kv = rkv
		lg.Info("storage", zap.String("backend", "redis"))
	} else {
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			lg.Fatal("db_open", zap.Error(err))
		}
		defer db.Close()
		store := repos.NewKVRepo(db)
		if n, err := store.PruneSuperseded(ctx, services.Namespaces()); err != nil {
			lg.Warn("kv_prune", zap.Error(err))
		} else if n > 0 {
			lg.Info("kv_prune", zap.Int64("rows", n))
		}
		kv = store
		lg.Info("storage", zap.String("backend", "sqlite"), zap.String("dsn", cfg.DBDSN))
	}

	deps := handlers.NewDeps(kv, cfg, sheet.NewClient(cfg.CSVProxyURL, cfg.FetchTimeout))
	if _, err := deps.Registry.Default(); err != nil {
		lg.Warn("catalog_source", zap.Error(err))
	}
	deps.Registry.Start()

	app := handlers.NewApp(cfg, deps, handlers.Limits{})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		lg.Info("shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	lg.Info("listen", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Error("listen", zap.Error(err))
	}
}
