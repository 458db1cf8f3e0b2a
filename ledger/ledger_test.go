package ledger

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"transportbilling/billing"
	"transportbilling/models"
	"transportbilling/templates"
)

const testDate = "2024-03-31"

// Default sections sort as PICKUP(5), TAURUS(7), TEMPO(9), TRUCK(11).
func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, templates.WriteDefaults(dir, billing.DefaultRates().VehicleTypes()))
	return NewWriter(templates.NewStore(dir), t.TempDir())
}

func record(id, vehicleType string) billing.ClassifiedRecord {
	rec := &models.LRRecord{
		ID:          id,
		Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		VehicleType: vehicleType,
		VehicleNo:   "MH09 AB 1234",
		Origin:      "Pune",
		Destination: "Mumbai",
	}
	c := billing.NewClassifier(billing.DefaultRates(), billing.Route{Origin: "kolhapur", Destination: "solapur"})
	return billing.ClassifiedRecord{Record: rec, Bill: c.Classify(rec)}
}

func openLedger(t *testing.T, w *Writer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(w.Path(testDate))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// section returns the header row of a section and its entry rows' serials.
func section(t *testing.T, f *excelize.File, name string) (int, []string) {
	t.Helper()
	rows, err := f.GetRows(templates.LedgerSheet)
	require.NoError(t, err)
	header := findSection(rows, name)
	require.NotZero(t, header, "section %s", name)
	var serials []string
	for row := header + 1; row <= len(rows) && !isSectionHeader(rows, row); row++ {
		if cellAt(rows, row, 1) != "" {
			serials = append(serials, cellAt(rows, row, 0))
		}
	}
	return header, serials
}

func TestAppendBatch_ContiguousSerialsInOneSection(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))

	before := openLedger(t, w)
	pickupHeader, pickupBefore := section(t, before, "PICKUP")
	tempoHeader, tempoBefore := section(t, before, "TEMPO")

	var batch []billing.ClassifiedRecord
	for i := 1; i <= 3; i++ {
		batch = append(batch, record(fmt.Sprintf("LR/%d", i), "taurus"))
	}
	n, err := w.AppendBatch(batch, testDate)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f := openLedger(t, w)
	header, serials := section(t, f, "TAURUS")
	assert.Equal(t, 7, header)
	assert.Equal(t, []string{"1", "2", "3"}, serials)

	for i, id := range []string{"LR/1", "LR/2", "LR/3"} {
		v, err := f.GetCellValue(templates.LedgerSheet, fmt.Sprintf("B%d", header+1+i))
		require.NoError(t, err)
		assert.Equal(t, id, v)
	}
	amount, err := f.GetCellValue(templates.LedgerSheet, "E8")
	require.NoError(t, err)
	assert.Equal(t, "18960", amount)
	ref, err := f.GetCellValue(templates.LedgerSheet, "F8")
	require.NoError(t, err)
	assert.Equal(t, "INV-LR-1", ref)
	date, err := f.GetCellValue(templates.LedgerSheet, "C8")
	require.NoError(t, err)
	assert.Equal(t, "02-03-2024", date)

	h, s := section(t, f, "PICKUP")
	assert.Equal(t, pickupHeader, h)
	assert.Equal(t, pickupBefore, s)
	h, s = section(t, f, "TEMPO")
	assert.Equal(t, tempoHeader+3, h, "rows below the insertions shift down")
	assert.Equal(t, tempoBefore, s)
}

func TestAppendBatch_InterleavedSections(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))

	batch := []billing.ClassifiedRecord{
		record("LR/1", "TRUCK"),
		record("LR/2", "PICKUP"),
		record("LR/3", "TRUCK"),
		record("LR/4", "PICKUP"),
	}
	_, err := w.AppendBatch(batch, testDate)
	require.NoError(t, err)

	f := openLedger(t, w)
	_, pickup := section(t, f, "PICKUP")
	_, truck := section(t, f, "TRUCK")
	assert.Equal(t, []string{"1", "2"}, pickup)
	assert.Equal(t, []string{"1", "2"}, truck)
}

func TestAppendBatch_SecondBatchContinuesSerials(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))

	_, err := w.AppendBatch([]billing.ClassifiedRecord{record("LR/1", "TEMPO")}, testDate)
	require.NoError(t, err)
	_, err = w.AppendBatch([]billing.ClassifiedRecord{record("LR/2", "TEMPO")}, testDate)
	require.NoError(t, err)

	_, serials := section(t, openLedger(t, w), "TEMPO")
	assert.Equal(t, []string{"1", "2"}, serials)
}

func TestAppendBatch_EntryRowsAreNotBold(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))
	_, err := w.AppendBatch([]billing.ClassifiedRecord{record("LR/1", "PICKUP")}, testDate)
	require.NoError(t, err)

	f := openLedger(t, w)
	for _, col := range templates.LedgerColumns {
		id, err := f.GetCellStyle(templates.LedgerSheet, col+"6")
		require.NoError(t, err)
		style, err := f.GetStyle(id)
		require.NoError(t, err)
		if style.Font != nil {
			assert.False(t, style.Font.Bold, "column %s", col)
		}
		assert.NotEmpty(t, style.Border, "column %s keeps the section formatting", col)
	}
}

func TestResetThenEmptyAppendIsByteIdentical(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))
	before, err := os.ReadFile(w.Path(testDate))
	require.NoError(t, err)

	n, err := w.AppendBatch(nil, testDate)
	require.NoError(t, err)
	assert.Zero(t, n)

	after, err := os.ReadFile(w.Path(testDate))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReset_DiscardsPreviousRows(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))
	_, err := w.AppendBatch([]billing.ClassifiedRecord{record("LR/1", "TRUCK")}, testDate)
	require.NoError(t, err)

	require.NoError(t, w.Reset(testDate))
	f := openLedger(t, w)
	_, serials := section(t, f, "TRUCK")
	assert.Empty(t, serials)

	banner, err := f.GetCellValue(templates.LedgerSheet, templates.LedgerBannerCell)
	require.NoError(t, err)
	assert.Equal(t, testDate, banner)
}

func TestAppendBatch_UnknownSectionReportedOthersWritten(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.Reset(testDate))

	n, err := w.AppendBatch([]billing.ClassifiedRecord{record("LR/1", ""), record("LR/2", "TRUCK")}, testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSectionNotFound))
	assert.Equal(t, 1, n)

	_, serials := section(t, openLedger(t, w), "TRUCK")
	assert.Equal(t, []string{"1"}, serials)
}

func TestAppendBatch_RequiresReset(t *testing.T) {
	w := newTestWriter(t)
	_, err := w.AppendBatch([]billing.ClassifiedRecord{record("LR/1", "TRUCK")}, testDate)
	assert.True(t, errors.Is(err, ErrNotReset))
}
