// campusconnect is a REST backend for a university community platform:
// student accounts with JWT auth, an OTP password-reset flow, hobby and
// teacher catalogs, the class timetable, and student-to-student connections.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/background"
	"github.com/user/campusconnect-go/classes"
	"github.com/user/campusconnect-go/config"
	"github.com/user/campusconnect-go/connections"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/hobbies"
	"github.com/user/campusconnect-go/students"
	"github.com/user/campusconnect-go/teachers"
)

func main() {
	// Absence is fine outside development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "migrations", logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Services share the pool through the Executor seam.
	studentService := students.NewStudentService(pool)
	authService := auth.NewAuthService(pool, *cfg.Auth, *cfg.OTP, auth.LogNotifier{Logger: logger})
	hobbyService := hobbies.NewHobbyService(pool)
	teacherService := teachers.NewTeacherService(pool)
	classService := classes.NewClassService(pool)
	connectionService := connections.NewConnectionService(pool)

	janitor := background.NewOTPJanitor(auth.NewOTPModel(pool), cfg.OTP.CleanupInterval, logger)
	janitor.Start()
	defer janitor.Stop()

	authenticated := auth.Middleware(*cfg.Auth, studentService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		auth.NewHandler(authService).RegisterRoutes(r, authenticated)
		students.NewHandler(studentService).RegisterRoutes(r, authenticated)
		hobbies.NewHandler(hobbyService).RegisterRoutes(r, authenticated)
		teachers.NewHandler(teacherService).RegisterRoutes(r, authenticated)
		classes.NewHandler(classService).RegisterRoutes(r, authenticated)
		connections.NewHandler(connectionService).RegisterRoutes(r, authenticated)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
