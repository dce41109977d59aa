package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iReady/iReady-Backend/internal/auth"
	"github.com/iReady/iReady-Backend/internal/config"
	"github.com/iReady/iReady-Backend/internal/db"
	"github.com/iReady/iReady-Backend/internal/geocode"
	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/middleware"
	"github.com/iReady/iReady-Backend/internal/poi"
	"github.com/iReady/iReady-Backend/internal/relief"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	log, err := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config", zap.Error(err))
	}

	layout, err := config.LoadLayout(cfg.RegionFile)
	if err != nil {
		log.Fatal("region file", zap.Error(err))
	}

	if err := db.Connect(cfg.DatabaseURL); err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if err := auth.Init(db.DB); err != nil {
		log.Fatal("auth init", zap.Error(err))
	}

	var pois poi.Store
	switch cfg.POISource {
	case config.POISourceDB:
		if err := poi.Init(db.DB); err != nil {
			log.Fatal("poi init", zap.Error(err))
		}
		pois = poi.NewDBStore(db.DB)
	default:
		fs, err := poi.LoadFile(cfg.POIsFile)
		if err != nil {
			log.Fatal("POI file", zap.Error(err))
		}
		pois = fs
	}

	predictions, err := relief.LoadFile(cfg.PredictionsFile)
	if err != nil {
		log.Fatal("predictions file", zap.Error(err))
	}

	var cache geocode.Cache = geocode.NopCache{}
	if rc := geocode.OpenRedis(cfg.RedisAddr, cfg.RedisPassword); rc != nil {
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, geocode cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cache = geocode.NewRedisCache(rc, geocode.DefaultCacheTTL)
		}
		cancel()
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("trusted proxies", zap.Error(err))
	}

	srv := &server{
		cfg:         cfg,
		auth:        auth.NewHandler(auth.NewGormStore(db.DB), cfg.Production()),
		pois:        &poi.Handler{Store: pois},
		predictions: predictions,
		markers:     relief.NewMarkerService(layout, predictions.Codes, pois),
		geocoder: geocode.NewService(pois, cache,
			geocode.NewNominatim(cfg.NominatimURL, cfg.GeocodeUserAgent)),
		proxies: proxies,
	}

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Port),
			zap.Int("area_codes", len(predictions.Codes())),
			zap.String("poi_source", string(cfg.POISource)),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
