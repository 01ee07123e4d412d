package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/store"
	"github.com/wonny/kscan/internal/strategy"
	"github.com/wonny/kscan/pkg/logger"
)

// SignalReader serves persisted scan matches
type SignalReader interface {
	LatestSignals(ctx context.Context, strategyName string, limit int) ([]store.StoredSignal, error)
}

// UniverseReader serves the stored instrument universe
type UniverseReader interface {
	GetAll(ctx context.Context) ([]contracts.Instrument, error)
}

// ScanRunner executes a scan cycle on demand
type ScanRunner interface {
	Execute(ctx context.Context) (*contracts.ScanResultSet, error)
}

// ScanHandler handles scan-related API endpoints
// ⭐ SSOT: 스캔 API 핸들러는 이 구조체에서만
type ScanHandler struct {
	signals  SignalReader
	universe UniverseReader
	runner   ScanRunner
	logger   *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(signals SignalReader, universe UniverseReader, runner ScanRunner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		signals:  signals,
		universe: universe,
		runner:   runner,
		logger:   log,
	}
}

var knownStrategies = map[string]bool{
	strategy.NameLivermore: true,
	strategy.NameONeil:     true,
	strategy.NameMinervini: true,
}

// GetSignals returns the latest cycle's matches for one strategy
// GET /api/signals/{strategy}?limit=20
func (h *ScanHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	strategyName := mux.Vars(r)["strategy"]
	if !knownStrategies[strategyName] {
		respondError(w, http.StatusNotFound, "Unknown strategy: "+strategyName)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	signals, err := h.signals.LatestSignals(r.Context(), strategyName, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategy": strategyName,
		"count":    len(signals),
		"signals":  signals,
	})
}

// GetUniverse returns the stored instrument universe
// GET /api/universe
func (h *ScanHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.universe.GetAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load universe")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve universe")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(instruments),
		"instruments": instruments,
	})
}

// TriggerScan runs a scan cycle immediately
// POST /api/scan
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Execute(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("On-demand scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "completed",
		"scanned": result.Scanned,
		"skipped": result.Skipped,
		"matches": result.Total(),
		"regime":  result.Regime,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
