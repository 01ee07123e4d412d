package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/store"
	"github.com/wonny/kscan/internal/strategy"
	"github.com/wonny/kscan/pkg/logger"
)

type fakeSignalReader struct {
	signals []store.StoredSignal
	err     error
}

func (f *fakeSignalReader) LatestSignals(_ context.Context, _ string, limit int) ([]store.StoredSignal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.signals) > limit {
		return f.signals[:limit], nil
	}
	return f.signals, nil
}

type fakeUniverseReader struct {
	instruments []contracts.Instrument
}

func (f *fakeUniverseReader) GetAll(context.Context) ([]contracts.Instrument, error) {
	return f.instruments, nil
}

type fakeRunner struct {
	result *contracts.ScanResultSet
	err    error
}

func (f *fakeRunner) Execute(context.Context) (*contracts.ScanResultSet, error) {
	return f.result, f.err
}

func newHandler(signals SignalReader, universe UniverseReader, runner ScanRunner) *ScanHandler {
	return NewScanHandler(signals, universe, runner, logger.NewNop())
}

func routeRequest(h *ScanHandler, method, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/signals/{strategy}", h.GetSignals).Methods("GET")
	r.HandleFunc("/api/universe", h.GetUniverse).Methods("GET")
	r.HandleFunc("/api/scan", h.TriggerScan).Methods("POST")

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetSignals(t *testing.T) {
	reader := &fakeSignalReader{signals: []store.StoredSignal{
		{Symbol: "005930", Name: "삼성전자", Strategy: strategy.NameLivermore, Score: 0.3},
		{Symbol: "000660", Name: "SK하이닉스", Strategy: strategy.NameLivermore, Score: 0.1},
	}}
	h := newHandler(reader, &fakeUniverseReader{}, &fakeRunner{})

	rec := routeRequest(h, http.MethodGet, "/api/signals/livermore")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Strategy string               `json:"strategy"`
		Count    int                  `json:"count"`
		Signals  []store.StoredSignal `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "livermore", body.Strategy)
	assert.Equal(t, 2, body.Count)
}

func TestGetSignalsUnknownStrategy(t *testing.T) {
	h := newHandler(&fakeSignalReader{}, &fakeUniverseReader{}, &fakeRunner{})

	rec := routeRequest(h, http.MethodGet, "/api/signals/turtle")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSignalsBadLimit(t *testing.T) {
	h := newHandler(&fakeSignalReader{}, &fakeUniverseReader{}, &fakeRunner{})

	rec := routeRequest(h, http.MethodGet, "/api/signals/oneil?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSignalsReaderError(t *testing.T) {
	h := newHandler(&fakeSignalReader{err: errors.New("db down")}, &fakeUniverseReader{}, &fakeRunner{})

	rec := routeRequest(h, http.MethodGet, "/api/signals/minervini")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetUniverse(t *testing.T) {
	h := newHandler(&fakeSignalReader{}, &fakeUniverseReader{instruments: []contracts.Instrument{
		{Symbol: "005930", Name: "삼성전자", Market: contracts.MarketKOSPI},
	}}, &fakeRunner{})

	rec := routeRequest(h, http.MethodGet, "/api/universe")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestTriggerScan(t *testing.T) {
	result := contracts.NewScanResultSet(time.Now(), contracts.MarketRegime{Trend: contracts.TrendBullish})
	result.Scanned = 5

	h := newHandler(&fakeSignalReader{}, &fakeUniverseReader{}, &fakeRunner{result: result})

	rec := routeRequest(h, http.MethodPost, "/api/scan")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Scanned int    `json:"scanned"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, 5, body.Scanned)
}

func TestTriggerScanFailure(t *testing.T) {
	h := newHandler(&fakeSignalReader{}, &fakeUniverseReader{}, &fakeRunner{err: errors.New("index unavailable")})

	rec := routeRequest(h, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
