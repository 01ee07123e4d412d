package naver

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/kscan/internal/contracts"
)

// 네이버 시가총액 페이지의 sosok 파라미터
var marketSosok = map[contracts.Market]string{
	contracts.MarketKOSPI:  "0",
	contracts.MarketKOSDAQ: "1",
}

var codeFromHrefRe = regexp.MustCompile(`code=(\d{6})`)

// FetchListing scrapes the market-cap listing pages for a market and
// returns instruments in market-cap order, up to limit entries.
// ⭐ SSOT: 종목 목록 스크래핑은 이 함수에서만
func (c *Client) FetchListing(ctx context.Context, market contracts.Market, limit int) ([]contracts.Instrument, error) {
	sosok, ok := marketSosok[market]
	if !ok {
		return nil, fmt.Errorf("unknown market: %s", market)
	}
	if limit <= 0 {
		limit = 100
	}

	var instruments []contracts.Instrument

	// 페이지당 50종목, 상한까지 순회
	maxPages := (limit + 49) / 50
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return instruments, ctx.Err()
		default:
		}

		params := url.Values{}
		params.Set("sosok", sosok)
		params.Set("page", strconv.Itoa(page))

		html, err := c.fetchHTML(ctx, "/sise/sise_market_sum.naver", params)
		if err != nil {
			return instruments, fmt.Errorf("fetch listing page %d: %w", page, err)
		}

		pageItems, err := parseListingHTML(html, market)
		if err != nil {
			return instruments, fmt.Errorf("parse listing page %d: %w", page, err)
		}
		if len(pageItems) == 0 {
			break // 마지막 페이지 이후
		}

		instruments = append(instruments, pageItems...)
		if len(instruments) >= limit {
			instruments = instruments[:limit]
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(instruments),
	}).Debug("Fetched market listing")
	return instruments, nil
}

// parseListingHTML extracts instruments from a market-cap listing page.
// 네이버 HTML 구조: table.type_2 행의 a.tltle 링크에 종목코드/이름
func parseListingHTML(html string, market contracts.Market) ([]contracts.Instrument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var instruments []contracts.Instrument
	doc.Find("table.type_2 a.tltle").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := codeFromHrefRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}

		instruments = append(instruments, contracts.Instrument{
			Symbol: m[1],
			Name:   name,
			Market: market,
		})
	})

	return instruments, nil
}
