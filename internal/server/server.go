package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	chat "google.golang.org/api/chat/v1"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
)

// EventHandler Описываем, что нам нужно от диспетчера событий
type EventHandler interface {
	Handle(ctx context.Context, event *domain.Event) (*chat.Message, error)
}

// Server — HTTP-поверхность бота: вебхук, healthcheck и метрики.
type Server struct {
	router *chi.Mux
	logger *zap.Logger

	dispatcher EventHandler
	store      registry.Store
	verifier   TokenVerifier // nil = проверка входящих токенов выключена
	promReg    *prometheus.Registry
	now        func() time.Time
}

// New собирает роутер со всеми зависимостями
func New(
	logger *zap.Logger,
	dispatcher EventHandler,
	store registry.Store,
	verifier TokenVerifier,
	promReg *prometheus.Registry,
) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		logger:     logger.Named("http"),
		dispatcher: dispatcher,
		store:      store,
		verifier:   verifier,
		promReg:    promReg,
		now:        time.Now,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Group(func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		if s.promReg != nil {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
		}
	})

	// --- 3. ВЕБХУК ПЛАТФОРМЫ (Bearer-токен, если настроен audience) ---
	r.Group(func(r chi.Router) {
		if s.verifier != nil {
			r.Use(NewAuthMiddleware(s.verifier, s.logger))
		}
		r.Post("/webhook", s.handleWebhook)
	})
}

// handleWebhook — единственная точка входа событий платформы.
// Любая паника или ошибка обработчика превращается здесь в текст с кодом 500;
// процесс продолжает обслуживать следующие запросы.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic in webhook handler", zap.Any("panic", rec))
			s.writeJSON(w, http.StatusInternalServerError, &chat.Message{
				Text: fmt.Sprintf("Error: %v", rec),
			})
		}
	}()

	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		// Кривое тело — молча подтверждаем, платформе не на что жаловаться
		s.logger.Warn("malformed webhook body", zap.Error(err))
		s.writeJSON(w, http.StatusOK, &chat.Message{})
		return
	}

	resp, err := s.dispatcher.Handle(r.Context(), &event)
	if err != nil {
		s.logger.Error("event handling failed",
			zap.String("type", event.Type),
			zap.Error(err),
		)
		s.writeJSON(w, http.StatusInternalServerError, &chat.Message{
			Text: fmt.Sprintf("Error: %v", err),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// healthResponse — ответ liveness-пробы
type healthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	PendingRequests int64  `json:"pendingRequests"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	size, err := s.store.Size(r.Context())
	if err != nil {
		s.logger.Warn("registry size unavailable", zap.Error(err))
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:          "healthy",
		Timestamp:       s.now().UTC().Format(time.RFC3339),
		PendingRequests: size,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response failed", zap.Error(err))
	}
}

// ServeHTTP позволяет использовать Server как стандартный http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
