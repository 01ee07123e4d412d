package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/kscan/pkg/config"
	"github.com/wonny/kscan/pkg/httputil"
	"github.com/wonny/kscan/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	baseURL      string
	chartBaseURL string
}

// NewClient creates a new Naver Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.NaverConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	chartBaseURL := cfg.ChartBaseURL
	if chartBaseURL == "" {
		chartBaseURL = "https://fchart.stock.naver.com"
	}

	return &Client{
		httpClient:   httpClient,
		logger:       log,
		baseURL:      baseURL,
		chartBaseURL: chartBaseURL,
	}
}

// fetchHTML fetches an HTML page from Naver Finance
func (c *Client) fetchHTML(ctx context.Context, path string, params url.Values) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
