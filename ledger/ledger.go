// Package ledger maintains the per-submission-date aggregation ledger.
//
// Every row insertion shifts the rows below it, so the insertion point of
// each record depends on the document left by the previous one. All rows
// of a batch are therefore appended sequentially in one open/save pass.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"

	"transportbilling/billing"
	"transportbilling/logging"
	"transportbilling/metrics"
	"transportbilling/templates"
	"transportbilling/utils"
)

// FileName is the ledger's well-known name inside a submission-date folder.
const FileName = "ledger.xlsx"

const dateLayout = "02-01-2006"

var (
	ErrNotReset        = errors.New("ledger has not been reset for this submission date")
	ErrSectionNotFound = errors.New("no ledger section for vehicle type")
)

// Writer owns ledger files under baseDir. Reset and AppendBatch calls are
// serialized so only one writer touches a ledger at a time.
type Writer struct {
	store   *templates.Store
	baseDir string
	mu      sync.Mutex
}

func NewWriter(store *templates.Store, baseDir string) *Writer {
	return &Writer{store: store, baseDir: baseDir}
}

// Path returns the ledger file for a submission date.
func (w *Writer) Path(submissionDate string) string {
	return filepath.Join(w.baseDir, utils.SanitizeFileName(submissionDate), FileName)
}

// Reset discards any existing ledger for the date and writes a fresh copy
// of the template with the submission date banner filled in.
func (w *Writer) Reset(submissionDate string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.store.Bytes(templates.Ledger)
	if err != nil {
		return err
	}
	path := w.Path(submissionDate)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove old ledger: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse ledger template: %w", err)
	}
	defer f.Close()
	if err := f.SetCellValue(templates.LedgerSheet, templates.LedgerBannerCell, submissionDate); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	logging.Infof("ledger: reset %s", path)
	return nil
}

// AppendBatch inserts one row per record, in order, and saves once. Records
// that cannot be placed are reported in the returned error while the rest
// are still written. An empty batch leaves the file untouched.
func (w *Writer) AppendBatch(records []billing.ClassifiedRecord, submissionDate string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(submissionDate)
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotReset, submissionDate)
		}
		return 0, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	if err := f.SetCellValue(templates.LedgerSheet, templates.LedgerBannerCell, submissionDate); err != nil {
		return 0, err
	}

	a := &appender{f: f, sheet: templates.LedgerSheet, plain: map[int]int{}}
	var result *multierror.Error
	appended := 0
	for _, cr := range records {
		if err := a.append(cr, submissionDate); err != nil {
			result = multierror.Append(result, fmt.Errorf("record %s: %w", cr.Record.ID, err))
			continue
		}
		appended++
	}

	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("save ledger: %w", err)
	}
	metrics.LedgerRows(appended)
	logging.Infof("ledger: appended %d/%d rows to %s", appended, len(records), path)
	return appended, result.ErrorOrNil()
}

type appender struct {
	f     *excelize.File
	sheet string
	// plain caches the non-bold variant of a source style.
	plain map[int]int
}

func (a *appender) append(cr billing.ClassifiedRecord, submissionDate string) error {
	rows, err := a.f.GetRows(a.sheet)
	if err != nil {
		return err
	}

	header := findSection(rows, cr.Bill.VehicleType)
	if header == 0 {
		return fmt.Errorf("%w %q", ErrSectionNotFound, cr.Bill.VehicleType)
	}
	at := insertionRow(rows, header)

	serial := 1
	if prev := at - 1; prev != header {
		if n, err := strconv.Atoi(strings.TrimSpace(cellAt(rows, prev, 0))); err == nil {
			serial = n + 1
		} else {
			serial = at - header
		}
	}

	styles, err := a.rowStyles(header + 1)
	if err != nil {
		return err
	}
	if err := a.f.InsertRows(a.sheet, at, 1); err != nil {
		return fmt.Errorf("insert row %d: %w", at, err)
	}

	rec := cr.Record
	date := ""
	if !rec.Date.IsZero() {
		date = rec.Date.Format(dateLayout)
	}
	values := []interface{}{serial, rec.ID, date, rec.VehicleNo, cr.Bill.EffectiveAmount, cr.BillReference(submissionDate)}
	for i, col := range templates.LedgerColumns {
		cell := fmt.Sprintf("%s%d", col, at)
		if err := a.f.SetCellStyle(a.sheet, cell, cell, styles[i]); err != nil {
			return err
		}
		if s, ok := values[i].(string); ok && s == "" {
			continue
		}
		if err := a.f.SetCellValue(a.sheet, cell, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// rowStyles returns the styles of a row with bold switched off.
func (a *appender) rowStyles(row int) ([]int, error) {
	out := make([]int, len(templates.LedgerColumns))
	for i, col := range templates.LedgerColumns {
		src, err := a.f.GetCellStyle(a.sheet, fmt.Sprintf("%s%d", col, row))
		if err != nil {
			return nil, err
		}
		id, err := a.plainStyle(src)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (a *appender) plainStyle(src int) (int, error) {
	if id, ok := a.plain[src]; ok {
		return id, nil
	}
	style, err := a.f.GetStyle(src)
	if err != nil {
		return 0, err
	}
	if style.Font == nil || !style.Font.Bold {
		a.plain[src] = src
		return src, nil
	}
	font := *style.Font
	font.Bold = false
	style.Font = &font
	id, err := a.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	a.plain[src] = id
	return id, nil
}

// cellAt returns the value at a 1-based row and 0-based column.
func cellAt(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) || col >= len(rows[row-1]) {
		return ""
	}
	return rows[row-1][col]
}

// isSectionHeader reports whether a row starts a vehicle-type section.
// Entry rows carry a numeric serial in column A.
func isSectionHeader(rows [][]string, row int) bool {
	if row < templates.LedgerFirstSection {
		return false
	}
	a := strings.TrimSpace(cellAt(rows, row, 0))
	if a == "" {
		return false
	}
	_, err := strconv.Atoi(a)
	return err != nil
}

// findSection returns the header row of a section, scanning column A top
// to bottom for a case-insensitive match, or 0.
func findSection(rows [][]string, vehicleType string) int {
	want := strings.TrimSpace(vehicleType)
	if want == "" {
		return 0
	}
	for row := templates.LedgerFirstSection; row <= len(rows); row++ {
		if strings.EqualFold(strings.TrimSpace(cellAt(rows, row, 0)), want) {
			return row
		}
	}
	return 0
}

// insertionRow is the first row after the header that has no record id or
// starts the next section.
func insertionRow(rows [][]string, header int) int {
	row := header + 1
	for row <= len(rows) {
		if strings.TrimSpace(cellAt(rows, row, 1)) == "" || isSectionHeader(rows, row) {
			break
		}
		row++
	}
	return row
}
