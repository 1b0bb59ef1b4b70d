package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"vpnstore-bot/internal/stories/orders"
)

// Server — админский HTTP API: управление ботом, рассылки, ручная
// смена статуса заказа. Телом отвечает JSON; авторизация — задача
// обратного прокси, наружу порт не светится.
type Server struct {
	bot        botClient
	orders     orderService
	broadcasts broadcastService
	stats      statsService
	settings   settingsService
	// fallbackToken используется, когда токен не задан в настройках.
	fallbackToken string
	logger        *slog.Logger
}

func NewServer(
	bot botClient,
	orderSvc orderService,
	broadcastSvc broadcastService,
	statsSvc statsService,
	settingsSvc settingsService,
	fallbackToken string,
	logger *slog.Logger,
) *Server {
	return &Server{
		bot:           bot,
		orders:        orderSvc,
		broadcasts:    broadcastSvc,
		stats:         statsSvc,
		settings:      settingsSvc,
		fallbackToken: fallbackToken,
		logger:        logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bot/restart", s.handleBotRestart)
	mux.HandleFunc("POST /api/bot/check-token", s.handleCheckToken)
	mux.HandleFunc("POST /api/bot/send-message", s.handleSendMessage)
	mux.HandleFunc("POST /api/bot/broadcast", s.handleBroadcast)
	mux.HandleFunc("PATCH /api/orders/{id}/status", s.handleOrderStatus)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	return mux
}

func (s *Server) handleBotRestart(w http.ResponseWriter, r *http.Request) {
	token, err := s.resolveToken(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if token == "" {
		s.respondError(w, http.StatusConflict, errors.New("bot token is not configured"))
		return
	}

	if err := s.bot.Restart(r.Context(), token); err != nil {
		s.respondError(w, http.StatusBadGateway, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

func (s *Server) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Token == "" {
		s.respondError(w, http.StatusBadRequest, errors.New("token is required"))
		return
	}

	username, err := s.bot.CheckToken(req.Token)
	if err != nil {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"username": username,
	})
}

// handleSendMessage адресуется внутренним id пользователя, не chat id:
// доставкой и политикой блокировки занимается сервис рассылок.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == 0 || req.Text == "" {
		s.respondError(w, http.StatusBadRequest, errors.New("user_id and text are required"))
		return
	}

	if err := s.broadcasts.Notify(r.Context(), req.UserID, req.Text); err != nil {
		s.respondError(w, http.StatusBadGateway, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	report, err := s.broadcasts.Broadcast(r.Context(), req.Text, nil)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{
		"total":  report.Total,
		"sent":   report.Sent,
		"failed": report.Failed,
	})
}

// handleOrderStatus переводит заказ через тот же конвейер, что и
// кнопки админа в telegram: никаких прямых записей статуса.
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	switch orders.Status(req.Status) {
	case orders.StatusCompleted:
		result, err := s.orders.Complete(ctx, orderID, s.settings.AutoActivate(ctx))
		if err != nil {
			s.respondOrderError(w, err)
			return
		}
		resp := map[string]interface{}{
			"order":             orderView(result.Order),
			"already_completed": result.AlreadyCompleted,
		}
		if result.IssueErr != nil {
			resp["issue_error"] = result.IssueErr.Error()
		}
		s.respondJSON(w, http.StatusOK, resp)

	case orders.StatusCancelled:
		order, err := s.orders.Reject(ctx, orderID)
		if err != nil {
			s.respondOrderError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"order": orderView(order)})

	default:
		s.respondError(w, http.StatusBadRequest, errors.New("status must be completed or cancelled"))
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Collect(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	byStatus := make(map[string]int, len(summary.OrdersByStatus))
	for status, count := range summary.OrdersByStatus {
		byStatus[string(status)] = count
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users_count":              summary.UsersCount,
		"orders_by_status":         byStatus,
		"revenue_kopecks":          summary.Revenue,
		"active_configs_count":     summary.ActiveConfigsCount,
		"completed_without_config": summary.CompletedWithoutConfig,
	})
}

func (s *Server) resolveToken(ctx context.Context) (string, error) {
	token, err := s.settings.BotToken(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		token = s.fallbackToken
	}
	return token, nil
}

func (s *Server) respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err)
	case isInvalidTransition(err):
		s.respondError(w, http.StatusConflict, err)
	default:
		s.respondError(w, http.StatusInternalServerError, err)
	}
}

func isInvalidTransition(err error) bool {
	var invalid orders.ErrInvalidTransition
	return errors.As(err, &invalid)
}

func orderView(order *orders.Order) map[string]interface{} {
	view := map[string]interface{}{
		"id":         order.ID,
		"user_id":    order.UserID,
		"product_id": order.ProductID,
		"amount":     order.Amount,
		"status":     string(order.Status),
		"created_at": order.CreatedAt,
	}
	if order.PaidAt != nil {
		view["paid_at"] = order.PaidAt
	}
	if order.ConfigID != nil {
		view["config_id"] = order.ConfigID
	}
	return view
}

func (s *Server) respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, err error) {
	s.respondJSON(w, code, map[string]string{"error": err.Error()})
}
