package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/loopify/deal-service/internal/app/config"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/port/http/middleware"
)

type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

type Handlers struct {
	Order        *OrderHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

func NewServer(cfg config.HTTPServerConfig, jwtSecret string, handlers Handlers, log logger.Logger) *Server {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, log)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", handlers.Order.HandlePlaceOrder)
			r.Get("/buying", handlers.Order.HandleListBuying)
			r.Get("/selling", handlers.Order.HandleListSelling)
			r.Get("/{id}", handlers.Order.HandleGetOrder)
			r.Patch("/{id}/status", handlers.Order.HandleUpdateOrderStatus)
			r.Delete("/{id}", handlers.Order.HandleDeleteOrder)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", handlers.Notification.HandleList)
			r.Get("/unread-count", handlers.Notification.HandleUnreadCount)
			r.Patch("/{id}/read", handlers.Notification.HandleMarkRead)
			r.Post("/read-all", handlers.Notification.HandleMarkAllRead)
			r.Delete("/{id}", handlers.Notification.HandleDelete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", handlers.Report.HandleSubmitReport)
			r.Get("/", handlers.Report.HandleListReports)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{httpServer: srv, log: log}
}

// Start blocks until the listener fails or Stop shuts the server down.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}
