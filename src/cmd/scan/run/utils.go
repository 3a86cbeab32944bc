package run

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/edgewalker/edgewalker/src/eventmodels"
	"github.com/edgewalker/edgewalker/src/eventservices"
)

func ExportToCsv(outDir string, results []*eventmodels.StrangleResult, outFilePrefix string) (string, error) {
	now := time.Now()
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("ExportToCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to create file: %w", err)
	}
	defer file.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = ','
		return gocsv.NewSafeCSVWriter(writer)
	})

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to write to file: %w", err)
	}

	return outFilePath, nil
}

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Strangle scan {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child, td:nth-child(2) { text-align: left; }
</style>
</head>
<body>
<h1>Strangle scan</h1>
<p>Run {{.RunID}}, started {{.StartedAt.Format "2006-01-02 15:04:05"}} UTC.
{{.TickersProcessed}} tickers processed, {{.TickersSkipped}} skipped.</p>
<table>
<tr>
<th>Symbol</th><th>Company</th><th>Price</th>
<th>Call</th><th>Put</th>
<th>Cost</th><th>Norm. diff</th><th>IV</th>
<th>P(profit)</th><th>E[gain]</th>
</tr>
{{range .Results}}
<tr>
<td>{{.Ticker}}</td>
<td>{{.CompanyName}}</td>
<td>{{printf "$%.2f" .StockPrice}}</td>
<td>{{printf "$%.2f @ %s" .StrikePriceCall .ExpirationDateCall}}</td>
<td>{{printf "$%.2f @ %s" .StrikePricePut .ExpirationDatePut}}</td>
<td>{{printf "$%.2f" .StrangleCost}}</td>
<td>{{printf "%.4f" .NormalizedDifference}}</td>
<td>{{printf "%.3f" .ImpliedVolatility}}</td>
<td>{{printf "%.3f" .ProbabilityOfProfit}}</td>
<td>{{printf "$%.2f" .ExpectedGain}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

type htmlReportData struct {
	RunID            string
	StartedAt        time.Time
	TickersProcessed int
	TickersSkipped   int
	Results          []*eventmodels.StrangleResult
}

func ExportToHtml(outDir string, results []*eventmodels.StrangleResult, report *eventservices.ScanReport, outFilePrefix string) (string, error) {
	now := time.Now()
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.html", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("ExportToHtml: failed to create directory: %w", err)
		}
	}

	tmpl, err := template.New("report").Parse(htmlReportTemplate)
	if err != nil {
		return "", fmt.Errorf("ExportToHtml: failed to parse template: %w", err)
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("ExportToHtml: failed to create file: %w", err)
	}
	defer file.Close()

	data := htmlReportData{
		RunID:            report.RunID.String(),
		StartedAt:        report.StartedAt,
		TickersProcessed: report.TickersProcessed,
		TickersSkipped:   report.TickersSkipped,
		Results:          results,
	}

	if err := tmpl.Execute(file, data); err != nil {
		return "", fmt.Errorf("ExportToHtml: failed to render template: %w", err)
	}

	return outFilePath, nil
}
