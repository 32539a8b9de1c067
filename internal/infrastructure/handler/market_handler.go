// Package handler internal/infrastructure/handler/market_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// MarketHandler handles HTTP requests for rates, inflation and the dashboard
type MarketHandler struct {
	service *service.MarketService
	logger  logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(service *service.MarketService, log logger.Logger) *MarketHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &MarketHandler{
		service: service,
		logger:  log,
	}
}

// GetCurrencies handles the currency catalog request
func (h *MarketHandler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	result := h.service.Currencies(r.Context())
	if !result.OK() {
		h.sendResultError(w, result.Err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toCurrencies(result.Value))
}

// GetCountries lists the supported countries
func (h *MarketHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, toCountries(h.service.Countries()))
}

// GetRates handles the rate series request
func (h *MarketHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	start, end, ok := h.parseDates(w, q.Get("start"), q.Get("end"), requestID)
	if !ok {
		return
	}

	query := entity.RateQuery{
		Base:   defaultString(q.Get("base"), service.DefaultBase),
		Target: defaultString(q.Get("target"), service.DefaultTarget),
		Start:  start,
		End:    end,
	}

	h.logger.Debug("Handling rates request", map[string]interface{}{
		"request_id": requestID,
		"base":       query.Base,
		"target":     query.Target,
	})

	result := h.service.RateReport(r.Context(), query)
	if !result.OK() {
		h.sendResultError(w, result.Err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toRateReport(result.Value))
}

// GetCountryInflation handles the inflation history of one country. An
// empty history is still a 200 with status "empty".
func (h *MarketHandler) GetCountryInflation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	country := mux.Vars(r)["country"]

	result := h.service.InflationReport(r.Context(), country)
	if result.Status == entity.StatusFailed {
		h.sendResultError(w, result.Err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newSection(result, toInflationReport))
}

// GetGlobalInflation handles the global inflation snapshot
func (h *MarketHandler) GetGlobalInflation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	result := h.service.GlobalSnapshot(r.Context())
	if result.Status == entity.StatusFailed {
		h.sendResultError(w, result.Err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newSection(result, toGlobalInflation))
}

// GetDashboard assembles every dashboard section. Section failures are
// reported inside the body; only malformed parameters fail the request.
func (h *MarketHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	start, end, ok := h.parseDates(w, q.Get("start"), q.Get("end"), requestID)
	if !ok {
		return
	}

	showInflation := true
	if raw := q.Get("inflation"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid inflation flag",
				"The 'inflation' parameter must be true or false", http.StatusBadRequest, requestID)
			return
		}
		showInflation = v
	}

	dashboard := h.service.Dashboard(r.Context(), service.DashboardRequest{
		Base:          strings.TrimSpace(q.Get("base")),
		Target:        strings.TrimSpace(q.Get("target")),
		Start:         start,
		End:           end,
		Country:       strings.TrimSpace(q.Get("country")),
		Compare:       strings.TrimSpace(q.Get("compare")),
		ShowInflation: showInflation,
	})

	sendJSON(w, http.StatusOK, toDashboard(dashboard))
}

// Health reports liveness
func (h *MarketHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the market handler routes
func (h *MarketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currencies", h.GetCurrencies).Methods("GET")
	router.HandleFunc("/rates", h.GetRates).Methods("GET")
	router.HandleFunc("/countries", h.GetCountries).Methods("GET")
	// Registered before /inflation/{country} so "global" is not taken for a country
	router.HandleFunc("/inflation/global", h.GetGlobalInflation).Methods("GET")
	router.HandleFunc("/inflation/{country}", h.GetCountryInflation).Methods("GET")
	router.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	h.logger.Info("Market routes registered", map[string]interface{}{
		"routes": []string{
			"GET /currencies",
			"GET /rates",
			"GET /countries",
			"GET /inflation/global",
			"GET /inflation/{country}",
			"GET /dashboard",
			"GET /healthz",
		},
	})
}

func (h *MarketHandler) parseDates(w http.ResponseWriter, rawStart, rawEnd, requestID string) (civil.Date, civil.Date, bool) {
	start, err := parseDate(rawStart)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid start date",
			"Dates must use the YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return civil.Date{}, civil.Date{}, false
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid end date",
			"Dates must use the YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return civil.Date{}, civil.Date{}, false
	}
	return start, end, true
}

// sendResultError maps a failed result to a status code
func (h *MarketHandler) sendResultError(w http.ResponseWriter, err error, requestID string) {
	fields := map[string]interface{}{
		"request_id": requestID,
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	switch {
	case service.IsInvalidQuery(err):
		h.logger.Warn("Invalid query", fields)
		sendErrorResponse(w, h.logger, "Invalid request", err.Error(), http.StatusBadRequest, requestID)
	case service.IsUndefinedMetric(err):
		h.logger.Warn("Metrics undefined", fields)
		sendErrorResponse(w, h.logger, "Metrics undefined", err.Error(), http.StatusUnprocessableEntity, requestID)
	case entity.IsRemoteFetchError(err):
		h.logger.Error("Upstream service error", fields)
		sendErrorResponse(w, h.logger, "Upstream service unavailable",
			"Unable to retrieve data from the upstream API. Please try again later.",
			http.StatusBadGateway, requestID)
	default:
		h.logger.Error("Unexpected error in market handler", fields)
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}

func parseDate(raw string) (civil.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return civil.Date{}, nil
	}
	return civil.ParseDate(raw)
}

func isZeroDate(d civil.Date) bool {
	return d == civil.Date{}
}

func defaultString(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, resp)
}
