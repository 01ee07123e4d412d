package dashboard

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wonny/kscan/internal/contracts"
)

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"joinTags": func(tags []string) string { return strings.Join(tags, ", ") },
	"add":      func(a, b int) int { return a + b },
}).Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>kscan {{.Date.Format "2006-01-02"}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; min-width: 40rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
th { background: #f4f4f4; }
.regime { display: inline-block; padding: 0.2rem 0.6rem; border-radius: 0.3rem; color: #fff; }
.BULLISH { background: #c0392b; }
.BEARISH { background: #2980b9; }
.NEUTRAL { background: #7f8c8d; }
.empty { color: #888; }
</style>
</head>
<body>
<h1>kscan 스캔 결과 {{.Date.Format "2006-01-02"}}</h1>
<p>
  시장 국면: <span class="regime {{.Regime.Trend}}">{{.Regime.Trend}}</span>
  RSI14 {{printf "%.1f" .Regime.RSI}} ·
  스캔 {{.Scanned}}종목 · 제외 {{.Skipped}}종목
</p>
{{range .Strategies}}
<h2>{{.Title}} ({{len .Signals}})</h2>
{{if .Signals}}
<table>
<tr><th>#</th><th>종목코드</th><th>종목명</th><th>시장</th><th>점수</th><th>근거</th></tr>
{{range $i, $sig := .Signals}}
<tr>
  <td>{{add $i 1}}</td>
  <td>{{$sig.Instrument.Symbol}}</td>
  <td>{{$sig.Instrument.Name}}</td>
  <td>{{$sig.Instrument.Market}}</td>
  <td>{{printf "%.4f" $sig.Score}}</td>
  <td>{{joinTags $sig.ReasonTags}}</td>
</tr>
{{end}}
</table>
{{else}}
<p class="empty">매칭 없음</p>
{{end}}
{{end}}
</body>
</html>
`))

type strategySection struct {
	Title   string
	Signals []contracts.Signal
}

type pageData struct {
	*contracts.ScanResultSet
	Strategies []strategySection
}

// writeHTML renders index.html for the latest scan
func (w *Writer) writeHTML(result *contracts.ScanResultSet) error {
	names := make([]string, 0, len(result.Signals))
	for name := range result.Signals {
		names = append(names, name)
	}
	sort.Strings(names)

	sections := make([]strategySection, 0, len(names))
	for _, name := range names {
		sections = append(sections, strategySection{
			Title:   name,
			Signals: result.Matches(name),
		})
	}

	path := filepath.Join(w.outputDir, "index.html")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	defer file.Close()

	if err := pageTemplate.Execute(file, pageData{
		ScanResultSet: result,
		Strategies:    sections,
	}); err != nil {
		return fmt.Errorf("render dashboard html: %w", err)
	}
	return nil
}
