package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"movieclub-backend/internal/api"
	"movieclub-backend/internal/auth"
	"movieclub-backend/internal/config"
	"movieclub-backend/internal/service"
	"movieclub-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := store.NewStore(cfg.DBSource)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	defer st.Close()

	if err := st.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	// Initialize Layers
	sessions := auth.NewSessions(cfg.SessionSecret, 24*time.Hour)
	recs := service.NewRecommendationService(st, logger)
	movies := service.NewMovieService(st, recs, logger)
	members := service.NewMemberService(st, logger)
	uploads := service.NewUploadService(cfg.UploadDir, cfg.UploadPrefix, logger)
	handler := api.NewHandler(movies, recs, members, uploads, sessions, logger)

	// Router
	r := mux.NewRouter()
	r.Use(handler.LogRequests, handler.Instrument)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	movieAPI := r.PathPrefix("/api/movies").Subrouter()
	movieAPI.HandleFunc("", handler.CreateMovie).Methods("POST")
	movieAPI.HandleFunc("", handler.ListMovies).Methods("GET")
	movieAPI.HandleFunc("/genres", handler.ListGenres).Methods("GET")
	movieAPI.HandleFunc("/genre/{genre}", handler.ListMoviesByGenre).Methods("GET")
	movieAPI.HandleFunc("/search", handler.SearchMovies).Methods("GET")
	movieAPI.HandleFunc("/recommended", handler.RecommendedMovies).Methods("GET")
	movieAPI.HandleFunc("/top-recommended", handler.TopRecommendedMovies).Methods("GET")
	movieAPI.HandleFunc("/{id}", handler.GetMovie).Methods("GET")
	movieAPI.HandleFunc("/{id}/recommend", handler.ToggleRecommendation).Methods("POST")
	movieAPI.HandleFunc("/{id}/recommend/check", handler.CheckRecommendation).Methods("GET")

	memberAPI := r.PathPrefix("/api/member").Subrouter()
	memberAPI.HandleFunc("/save", handler.Signup).Methods("POST")
	memberAPI.HandleFunc("/login", handler.Login).Methods("POST")
	memberAPI.HandleFunc("/logout", handler.Logout).Methods("GET")
	memberAPI.HandleFunc("/check-session", handler.CheckSession).Methods("GET")
	memberAPI.HandleFunc("/me", handler.Me).Methods("GET")
	memberAPI.HandleFunc("/all", handler.ListMembers).Methods("GET")
	memberAPI.HandleFunc("/update", handler.UpdateMember).Methods("POST")
	memberAPI.HandleFunc("/change-password", handler.ChangePassword).Methods("POST")
	memberAPI.HandleFunc("/id-check", handler.IDCheck).Methods("POST")
	memberAPI.HandleFunc("/delete/{id}", handler.DeleteMember).Methods("DELETE")
	memberAPI.HandleFunc("/{id}", handler.GetMember).Methods("GET")

	r.HandleFunc("/api/upload/image", handler.UploadImage).Methods("POST")
	r.PathPrefix(cfg.UploadPrefix + "/").Handler(
		http.StripPrefix(cfg.UploadPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir))))

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
