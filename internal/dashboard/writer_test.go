package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/strategy"
	"github.com/wonny/kscan/pkg/logger"
)

func sampleResultSet(t *testing.T) *contracts.ScanResultSet {
	t.Helper()
	date := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	result := contracts.NewScanResultSet(date, contracts.MarketRegime{
		Trend: contracts.TrendBullish,
		RSI:   62.5,
	})
	result.Scanned = 10
	result.Skipped = 1

	result.Add(contracts.Match(
		contracts.Instrument{Symbol: "005930", Name: "삼성전자", Market: contracts.MarketKOSPI},
		strategy.NameLivermore, 0.12, date, "new-52w-high", "volume-surge",
	))
	result.Add(contracts.Match(
		contracts.Instrument{Symbol: "000660", Name: "SK하이닉스", Market: contracts.MarketKOSPI},
		strategy.NameLivermore, 0.30, date, "new-52w-high", "volume-surge",
	))
	result.Add(contracts.Match(
		contracts.Instrument{Symbol: "247540", Name: "에코프로비엠", Market: contracts.MarketKOSDAQ},
		strategy.NameONeil, 3.1, date, "volume-surge", "up-day",
	))
	result.SortByScore()
	return result
}

func TestWriteProducesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())

	require.NoError(t, w.Write(sampleResultSet(t)))

	for _, name := range []string{
		"scan-2024-06-14.json",
		"livermore-2024-06-14.csv",
		"oneil-2024-06-14.csv",
		"index.html",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "missing artifact %s", name)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())
	require.NoError(t, w.Write(sampleResultSet(t)))

	data, err := os.ReadFile(filepath.Join(dir, "scan-2024-06-14.json"))
	require.NoError(t, err)

	var decoded contracts.ScanResultSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 10, decoded.Scanned)
	assert.Len(t, decoded.Signals[strategy.NameLivermore], 2)
}

func TestWriteCSVOrderedByScore(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())
	require.NoError(t, w.Write(sampleResultSet(t)))

	file, err := os.Open(filepath.Join(dir, "livermore-2024-06-14.csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // 헤더 + 2행

	assert.Equal(t, []string{"rank", "symbol", "name", "market", "score", "reasons"}, rows[0])
	// 점수 내림차순
	assert.Equal(t, "000660", rows[1][1])
	assert.Equal(t, "005930", rows[2][1])
	assert.Equal(t, "new-52w-high|volume-surge", rows[1][5])
}

func TestWriteHTMLContainsSignals(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())
	require.NoError(t, w.Write(sampleResultSet(t)))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	html := string(data)
	assert.True(t, strings.Contains(html, "삼성전자"))
	assert.True(t, strings.Contains(html, "BULLISH"))
	assert.True(t, strings.Contains(html, "livermore"))
}

func TestWriteEmptyResultSet(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())

	result := contracts.NewScanResultSet(
		time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		contracts.MarketRegime{Trend: contracts.TrendNeutral, RSI: 50},
	)
	require.NoError(t, w.Write(result))

	_, err := os.Stat(filepath.Join(dir, "index.html"))
	assert.NoError(t, err)
}
