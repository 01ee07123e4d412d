package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/kscan/internal/contracts"
)

// FetchDailyBars fetches daily OHLCV bars for a stock or index from the
// Naver Finance chart API. Index symbols (KOSPI, KOSDAQ) use the same
// endpoint as stock codes.
// ⭐ SSOT: 네이버 일봉 조회는 이 함수에서만
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	fromStr := from.Format("20060102")
	toStr := to.Format("20060102")

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartBaseURL, symbol, fromStr, toStr,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := c.parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars")
	return bars, nil
}

// parseChartResponse parses the siseJson body. The endpoint returns a
// quasi-JSON array with single quotes, so quotes are normalized first and
// a regex fallback covers malformed payloads.
func (c *Client) parseChartResponse(body string) ([]contracts.Bar, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return c.parseChartJSON(rawData)
	}

	return c.parseChartRegex(body)
}

func (c *Client) parseChartJSON(rawData [][]interface{}) ([]contracts.Bar, error) {
	var bars []contracts.Bar
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // 헤더 행
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := parseChartDate(dateStr)
		if err != nil {
			continue
		}

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   toFloat64(row[1]),
			High:   toFloat64(row[2]),
			Low:    toFloat64(row[3]),
			Close:  toFloat64(row[4]),
			Volume: toInt64(row[5]),
		})
	}
	sortBarsByDate(bars)
	return bars, nil
}

var chartRowRe = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*(\d+)\]`)

func (c *Client) parseChartRegex(body string) ([]contracts.Bar, error) {
	matches := chartRowRe.FindAllStringSubmatch(body, -1)

	var bars []contracts.Bar
	for _, match := range matches {
		if len(match) < 7 {
			continue
		}

		date, err := parseChartDate(match[1])
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(match[2], 64)
		high, _ := strconv.ParseFloat(match[3], 64)
		low, _ := strconv.ParseFloat(match[4], 64)
		closePrice, _ := strconv.ParseFloat(match[5], 64)
		volume, _ := strconv.ParseInt(match[6], 10, 64)

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	sortBarsByDate(bars)
	return bars, nil
}

func parseChartDate(s string) (time.Time, error) {
	s = strings.Trim(s, "\"")
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse("20060102", s)
}

func sortBarsByDate(bars []contracts.Bar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
}

// toFloat64 converts various JSON number representations to float64
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	default:
		return 0
	}
}
