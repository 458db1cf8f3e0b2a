package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/xuri/excelize/v2"
)

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page { size: A4; margin: 20px; }
body { font-family: Arial, Helvetica, sans-serif; font-size: 11px; margin: 0; }
h1 { font-size: 14px; margin: 0 0 8px 0; }
table { border-collapse: collapse; width: 100%; page-break-inside: auto; }
tr { page-break-inside: avoid; }
td { border: 1px solid #999; padding: 3px 5px; vertical-align: top; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>`))

type sheetPage struct {
	Title string
	Rows  [][]string
}

// ChromeRenderer re-renders a spreadsheet's cells as an HTML table and
// prints it with headless Chrome.
type ChromeRenderer struct {
	// Settle is how long the page is given to lay out before printing.
	Settle time.Duration
}

func (c *ChromeRenderer) Convert(ctx context.Context, srcPath string) (string, error) {
	html, err := sheetHTML(srcPath)
	if err != nil {
		return "", err
	}

	tmpHTML, err := writeTempHTML(html)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpHTML)

	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.Sleep(c.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", fmt.Errorf("chrome print: %w", err)
	}

	pdfPath := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".pdf"
	if err := os.WriteFile(pdfPath, pdfBuf, 0644); err != nil {
		return "", err
	}
	return pdfPath, nil
}

// sheetHTML reads the first sheet and renders its non-empty rows as a table.
func sheetHTML(srcPath string) ([]byte, error) {
	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	data := sheetPage{Title: sheet}
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := sheetTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeTempHTML stores html in a uniquely named temp file so concurrent
// conversions never share one.
func writeTempHTML(html []byte) (string, error) {
	f, err := os.CreateTemp("", "sheet_*.html")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(html); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
