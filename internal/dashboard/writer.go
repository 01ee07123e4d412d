package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
)

// Writer renders a scan result set into the output directory as JSON,
// one CSV per strategy, and a static HTML summary page.
// ⭐ SSOT: 스캔 결과 파일 출력은 여기서만
type Writer struct {
	outputDir string
	logger    *logger.Logger
}

// NewWriter creates a dashboard writer
func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger:    log,
	}
}

// Write renders every artifact for one scan cycle.
// 파일명은 스캔 날짜 기준으로 결정된다.
func (w *Writer) Write(result *contracts.ScanResultSet) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	dateStr := result.Date.Format("2006-01-02")

	if err := w.writeJSON(result, dateStr); err != nil {
		return err
	}
	for strategyName := range result.Signals {
		if err := w.writeCSV(result, strategyName, dateStr); err != nil {
			return err
		}
	}
	if err := w.writeHTML(result); err != nil {
		return err
	}

	w.logger.WithFields(map[string]interface{}{
		"date":    dateStr,
		"matches": result.Total(),
		"dir":     w.outputDir,
	}).Info("Wrote dashboard artifacts")
	return nil
}

func (w *Writer) writeJSON(result *contracts.ScanResultSet, dateStr string) error {
	path := filepath.Join(w.outputDir, fmt.Sprintf("scan-%s.json", dateStr))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeCSV(result *contracts.ScanResultSet, strategyName, dateStr string) error {
	path := filepath.Join(w.outputDir, fmt.Sprintf("%s-%s.csv", strategyName, dateStr))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"rank", "symbol", "name", "market", "score", "reasons"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, sig := range result.Matches(strategyName) {
		row := []string{
			strconv.Itoa(i + 1),
			sig.Instrument.Symbol,
			sig.Instrument.Name,
			string(sig.Instrument.Market),
			strconv.FormatFloat(sig.Score, 'f', 4, 64),
			strings.Join(sig.ReasonTags, "|"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}
