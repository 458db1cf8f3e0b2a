package renderer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"transportbilling/billing"
	"transportbilling/models"
	"transportbilling/templates"
	"transportbilling/utils"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, templates.WriteDefaults(dir, billing.DefaultRates().VehicleTypes()))
	return NewRenderer(templates.NewStore(dir), t.TempDir(), Company{Name: "Hariom Transport", GSTIN: "27ABCDE1234F1Z5"})
}

func classified(rec *models.LRRecord) billing.ClassifiedRecord {
	c := billing.NewClassifier(billing.DefaultRates(), billing.Route{Origin: "kolhapur", Destination: "solapur"})
	return billing.ClassifiedRecord{Record: rec, Bill: c.Classify(rec)}
}

func cell(t *testing.T, path, name, coord string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	layout, _ := templates.LayoutFor(name)
	v, err := f.GetCellValue(layout.Sheet, coord)
	require.NoError(t, err)
	return v
}

func sampleRecord() *models.LRRecord {
	gate := "GE-77"
	return &models.LRRecord{
		ID:          "LR/2024/017",
		Date:        time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		VehicleType: "truck",
		VehicleNo:   "MH09 AB 1234",
		Origin:      "Pune",
		Destination: "Mumbai",
		Consignor:   "Shree Steels",
		Consignee:   "Alpha / Beta / Gamma / Delta",
		Goods:       []models.Goods{{Description: "Steel coils", Quantity: "12 MT"}},
		GateEntryNo: &gate,
	}
}

func TestRenderShipmentCopy(t *testing.T) {
	r := newTestRenderer(t)
	art, err := r.RenderShipmentCopy(classified(sampleRecord()), "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, models.KindShipmentCopy, art.Kind)
	assert.Equal(t, filepath.Join(r.OutputDir("2024-03-31"), utils.ArtifactName("LR/2024/017")+"_shipment-copy.xlsx"), art.Path)

	assert.Equal(t, "LR/2024/017", cell(t, art.Path, templates.ShipmentCopy, "C5"))
	assert.Equal(t, "09-03-2024", cell(t, art.Path, templates.ShipmentCopy, "G5"))
	assert.Equal(t, "TRUCK", cell(t, art.Path, templates.ShipmentCopy, "G6"))
	assert.Equal(t, "Shree Steels", cell(t, art.Path, templates.ShipmentCopy, "B10"))
	assert.Empty(t, cell(t, art.Path, templates.ShipmentCopy, "B11"))
	assert.Equal(t, "Steel coils", cell(t, art.Path, templates.ShipmentCopy, "A15"))
	assert.Equal(t, "GE-77", cell(t, art.Path, templates.ShipmentCopy, "C20"))
	assert.Equal(t, "2500", cell(t, art.Path, templates.ShipmentCopy, "G20"))
	assert.Equal(t, "Hariom Transport", cell(t, art.Path, templates.ShipmentCopy, "A1"))
}

func TestRenderShipmentCopy_ConsigneeOverflowTruncated(t *testing.T) {
	r := newTestRenderer(t)
	art, err := r.RenderShipmentCopy(classified(sampleRecord()), "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, "Alpha", cell(t, art.Path, templates.ShipmentCopy, "F10"))
	assert.Equal(t, "Beta", cell(t, art.Path, templates.ShipmentCopy, "F11"))
	assert.Equal(t, "Gamma", cell(t, art.Path, templates.ShipmentCopy, "F12"))
	assert.Empty(t, cell(t, art.Path, templates.ShipmentCopy, "F13"))
}

func TestRenderShipmentCopy_AbsentFieldKeepsTemplateDefault(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()
	rec.Remarks = nil
	art, err := r.RenderShipmentCopy(classified(rec), "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, templates.DefaultRemarks, cell(t, art.Path, templates.ShipmentCopy, "C23"))
	assert.Empty(t, cell(t, art.Path, templates.ShipmentCopy, "C21"))

	remarks := "Fragile"
	rec.Remarks = &remarks
	art, err = r.RenderShipmentCopy(classified(rec), "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "Fragile", cell(t, art.Path, templates.ShipmentCopy, "C23"))
}

func TestRenderInvoice(t *testing.T) {
	r := newTestRenderer(t)
	art, err := r.RenderInvoice(classified(sampleRecord()), "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, "INV-LR-2024-017", cell(t, art.Path, templates.Invoice, "G5"))
	assert.Equal(t, "12484", cell(t, art.Path, templates.Invoice, "G15"))
	assert.Equal(t, "4", cell(t, art.Path, templates.Invoice, "G11"))
	assert.Equal(t, "TWELVE THOUSAND FOUR HUNDRED EIGHTY FOUR RUPEES ONLY", cell(t, art.Path, templates.Invoice, "A17"))
}

func TestRenderReworkBill_AggregateTotal(t *testing.T) {
	r := newTestRenderer(t)
	var entries []billing.ClassifiedRecord
	for _, id := range []string{"LR/1", "LR/2"} {
		rec := sampleRecord()
		rec.ID = id
		rec.Origin, rec.Destination = "Kolhapur", "Solapur"
		entries = append(entries, classified(rec))
	}

	art, err := r.RenderReworkBill(entries, "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, models.KindReworkBill, art.Kind)

	assert.Equal(t, "RWK-2024-03-31", cell(t, art.Path, templates.ReworkBill, "F5"))
	assert.Equal(t, "1", cell(t, art.Path, templates.ReworkBill, "A9"))
	assert.Equal(t, "LR/2", cell(t, art.Path, templates.ReworkBill, "B10"))
	assert.Equal(t, "9987", cell(t, art.Path, templates.ReworkBill, "F10"))
	assert.Equal(t, "TOTAL", cell(t, art.Path, templates.ReworkBill, "E11"))
	assert.Equal(t, "19974", cell(t, art.Path, templates.ReworkBill, "F11"))
	assert.Equal(t, "NINETEEN THOUSAND NINE HUNDRED SEVENTY FOUR RUPEES ONLY", cell(t, art.Path, templates.ReworkBill, "A13"))
}

func TestRenderAdditionalBill_SkipsIneligible(t *testing.T) {
	r := newTestRenderer(t)
	multi := sampleRecord()
	single := sampleRecord()
	single.ID = "LR/9"
	single.Consignee = "Only One"

	art, err := r.RenderAdditionalBill([]billing.ClassifiedRecord{classified(multi), classified(single)}, "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, "LR/2024/017", cell(t, art.Path, templates.AdditionalBill, "B9"))
	assert.Equal(t, "4500", cell(t, art.Path, templates.AdditionalBill, "F9"))
	assert.Equal(t, "TOTAL", cell(t, art.Path, templates.AdditionalBill, "E10"))
	assert.Equal(t, "4500", cell(t, art.Path, templates.AdditionalBill, "F10"))
}
