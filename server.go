package main

import (
	"fmt"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iReady/iReady-Backend/internal/auth"
	"github.com/iReady/iReady-Backend/internal/config"
	"github.com/iReady/iReady-Backend/internal/geocode"
	"github.com/iReady/iReady-Backend/internal/metrics"
	"github.com/iReady/iReady-Backend/internal/middleware"
	"github.com/iReady/iReady-Backend/internal/poi"
	"github.com/iReady/iReady-Backend/internal/relief"
)

type server struct {
	cfg         config.Config
	auth        *auth.Handler
	pois        *poi.Handler
	predictions *relief.Store
	markers     *relief.MarkerService
	geocoder    *geocode.Service
	proxies     []netip.Prefix
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func (s *server) routes() http.Handler {
	limiter := middleware.NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)
	sessions := auth.SessionInfo{Store: s.auth.Store}
	reliefHandler := &relief.Handler{Predictions: s.predictions, Markers: s.markers}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RealIP(s.proxies))
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(s.cfg.CORSOrigins))

	r.Get("/healthz", RootHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.SetupRoutes(s.auth, limiter))
		r.Mount("/pois", poi.SetupRoutes(s.pois))
		r.Mount("/geocode", geocode.SetupRoutes(&geocode.Handler{Service: s.geocoder}, limiter))
		relief.RegisterRoutes(r, reliefHandler, sessions)
	})
	relief.RegisterRawRoutes(r, reliefHandler)

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	} else {
		r.Get("/", RootHandler)
	}
	return r
}
