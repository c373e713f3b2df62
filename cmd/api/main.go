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

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"sharePreview/cmd/app"
	"sharePreview/internal/config"
	handlers "sharePreview/internal/handler"
	"sharePreview/internal/logger"
	"sharePreview/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log)
	for _, warning := range cfg.Warnings {
		log.Warn(warning)
	}

	application, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Ошибка инициализации приложения")
	}
	defer application.Close()

	handler := handlers.NewHandlers(application.Services, application.Media, application.DB, cfg, log)

	limiter := middleware.NewRateLimiter(cfg.APILimit, log)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(10*time.Minute, stopCleanup)
	defer close(stopCleanup)

	// setting up routes
	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(middleware.Metrics(application.Metrics)))
	router.Handle("/metrics", application.Metrics.Handler()).Methods(http.MethodGet)
	handler.Routes(router, limiter.Handler)

	handlerChain := middleware.Chain(
		router,
		middleware.Recover(log),
		middleware.Logging(log),
		middleware.CORS(cfg.CORSOrigins),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handlerChain,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     server.Addr,
			"database": cfg.DB.DbNAME,
			"sinks":    cfg.TrackSinks,
		}).Info("Сервер запущен")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Ошибка запуска сервера")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Останавливаем сервер")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Ошибка при остановке сервера")
	}
}
