package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"transportbilling/billing"
	"transportbilling/models"
	"transportbilling/templates"
	"transportbilling/utils"
)

// DateLayout is how dates are printed on every document.
const DateLayout = "02-01-2006"

// Company is the transporter letterhead printed on documents.
type Company struct {
	Name    string
	Address string
	GSTIN   string
}

// Renderer fills fixed-layout templates and saves them under a
// per-submission-date folder.
type Renderer struct {
	store   *templates.Store
	baseDir string
	company Company
}

func NewRenderer(store *templates.Store, baseDir string, company Company) *Renderer {
	return &Renderer{store: store, baseDir: baseDir, company: company}
}

// OutputDir is the local folder for one submission date.
func (r *Renderer) OutputDir(submissionDate string) string {
	return filepath.Join(r.baseDir, utils.SanitizeFileName(submissionDate))
}

// ArtifactPath is where a record's document of the given kind is written.
func (r *Renderer) ArtifactPath(submissionDate, recordID string, kind models.ArtifactKind) string {
	name := fmt.Sprintf("%s_%s.xlsx", utils.ArtifactName(recordID), kind)
	return filepath.Join(r.OutputDir(submissionDate), name)
}

// form collects the values to write; blank values are never added so the
// template default stays visible.
type form struct {
	cells map[string]interface{}
	lines map[string][]string
}

func newForm() *form {
	return &form{cells: map[string]interface{}{}, lines: map[string][]string{}}
}

func (f *form) text(field, v string) {
	if v != "" {
		f.cells[field] = v
	}
}

func (f *form) optional(field string, v *string) {
	if v != nil {
		f.text(field, *v)
	}
}

func (f *form) date(field string, t time.Time) {
	if !t.IsZero() {
		f.cells[field] = t.Format(DateLayout)
	}
}

func (f *form) amount(field string, v int64) {
	f.cells[field] = v
}

func (f *form) list(field string, values []string) {
	if len(values) > 0 {
		f.lines[field] = values
	}
}

func (r *Renderer) letterhead(f *form) {
	f.text(templates.FieldCompanyName, r.company.Name)
	f.text(templates.FieldCompanyAddress, r.company.Address)
	if r.company.GSTIN != "" {
		f.text(templates.FieldCompanyGSTIN, "GSTIN: "+r.company.GSTIN)
	}
}

// fill writes a form into a working copy. Multi-valued fields beyond the
// layout's run of cells are dropped.
func fill(doc *excelize.File, layout templates.Layout, f *form) error {
	for field, v := range f.cells {
		cell, ok := layout.Cells[field]
		if !ok {
			continue
		}
		if err := doc.SetCellValue(layout.Sheet, cell, v); err != nil {
			return fmt.Errorf("write %s: %w", field, err)
		}
	}
	for field, values := range f.lines {
		for i, cell := range layout.Lines[field] {
			if i >= len(values) {
				break
			}
			if err := doc.SetCellValue(layout.Sheet, cell, values[i]); err != nil {
				return fmt.Errorf("write %s line %d: %w", field, i+1, err)
			}
		}
	}
	return nil
}

// render opens a fresh copy of the template, lets write fill it, and saves it to path.
func (r *Renderer) render(name, path string, write func(*excelize.File, templates.Layout) error) error {
	layout, ok := templates.LayoutFor(name)
	if !ok {
		return fmt.Errorf("no layout for template %s", name)
	}
	doc, err := r.store.Get(name)
	if err != nil {
		return err
	}
	defer doc.Close()

	if err := write(doc, layout); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := doc.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// RenderShipmentCopy writes the consignment copy of a lorry receipt.
func (r *Renderer) RenderShipmentCopy(cr billing.ClassifiedRecord, submissionDate string) (models.Artifact, error) {
	rec := cr.Record
	f := newForm()
	r.letterhead(f)
	f.text(templates.FieldLRNo, rec.ID)
	f.date(templates.FieldLRDate, rec.Date)
	f.text(templates.FieldVehicleNo, rec.VehicleNo)
	f.text(templates.FieldVehicleType, cr.Bill.VehicleType)
	f.text(templates.FieldOrigin, rec.Origin)
	f.text(templates.FieldDestination, rec.Destination)
	f.list(templates.FieldConsignor, billing.SplitList(rec.Consignor))
	f.list(templates.FieldConsignee, billing.SplitList(rec.Consignee))
	f.optional(templates.FieldGateEntryNo, rec.GateEntryNo)
	f.optional(templates.FieldInvoiceNo, rec.InvoiceNo)
	f.optional(templates.FieldWeightSlipNo, rec.WeightSlipNo)
	f.optional(templates.FieldRemarks, rec.Remarks)
	f.amount(templates.FieldDriverPayment, cr.Bill.DriverPayment)

	var goods, qty []string
	for _, g := range rec.Goods {
		goods = append(goods, g.Description)
		qty = append(qty, g.Quantity)
	}
	f.list(templates.FieldGoods, goods)
	f.list(templates.FieldQuantity, qty)

	path := r.ArtifactPath(submissionDate, rec.ID, models.KindShipmentCopy)
	err := r.render(templates.ShipmentCopy, path, func(doc *excelize.File, l templates.Layout) error {
		return fill(doc, l, f)
	})
	if err != nil {
		return models.Artifact{}, fmt.Errorf("render shipment copy: %w", err)
	}
	return models.Artifact{Kind: models.KindShipmentCopy, Path: path}, nil
}

// RenderInvoice writes the regular freight invoice of one record.
func (r *Renderer) RenderInvoice(cr billing.ClassifiedRecord, submissionDate string) (models.Artifact, error) {
	rec := cr.Record
	f := newForm()
	r.letterhead(f)
	f.text(templates.FieldLRNo, rec.ID)
	f.text(templates.FieldBillNo, billing.InvoiceNumber(rec.ID))
	f.date(templates.FieldLRDate, rec.Date)
	f.text(templates.FieldSubmissionDate, submissionDate)
	f.text(templates.FieldVehicleNo, rec.VehicleNo)
	f.text(templates.FieldVehicleType, cr.Bill.VehicleType)
	f.text(templates.FieldOrigin, rec.Origin)
	f.text(templates.FieldDestination, rec.Destination)
	f.list(templates.FieldConsignee, billing.SplitList(rec.Consignee))
	if cr.Bill.DestinationCount > 0 {
		f.cells[templates.FieldDestinationCount] = cr.Bill.DestinationCount
	}
	f.amount(templates.FieldAmount, cr.Bill.EffectiveAmount)
	f.text(templates.FieldAmountInWords, utils.AmountInWords(cr.Bill.EffectiveAmount))

	path := r.ArtifactPath(submissionDate, rec.ID, models.KindInvoice)
	err := r.render(templates.Invoice, path, func(doc *excelize.File, l templates.Layout) error {
		return fill(doc, l, f)
	})
	if err != nil {
		return models.Artifact{}, fmt.Errorf("render invoice: %w", err)
	}
	return models.Artifact{Kind: models.KindInvoice, Path: path}, nil
}
