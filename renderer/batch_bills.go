package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"transportbilling/billing"
	"transportbilling/models"
	"transportbilling/templates"
	"transportbilling/utils"
)

// billRow is one entry line of a batch-level bill.
type billRow struct {
	recordID  string
	date      string
	vehicleNo string
	route     string
	amount    int64
}

// RenderReworkBill lists every rework record of the batch on one bill
// with a single aggregate total.
func (r *Renderer) RenderReworkBill(entries []billing.ClassifiedRecord, submissionDate string) (models.Artifact, error) {
	rows := make([]billRow, 0, len(entries))
	for _, cr := range entries {
		rows = append(rows, rowFor(cr, cr.Bill.EffectiveAmount, ""))
	}
	path := filepath.Join(r.OutputDir(submissionDate), string(models.KindReworkBill)+".xlsx")
	if err := r.renderBill(templates.ReworkBill, path, billing.ReworkBillNumber(submissionDate), submissionDate, rows); err != nil {
		return models.Artifact{}, fmt.Errorf("render rework bill: %w", err)
	}
	return models.Artifact{Kind: models.KindReworkBill, Path: path}, nil
}

// RenderAdditionalBill lists the additional-destination surcharge of
// every eligible record of the batch.
func (r *Renderer) RenderAdditionalBill(entries []billing.ClassifiedRecord, submissionDate string) (models.Artifact, error) {
	rows := make([]billRow, 0, len(entries))
	for _, cr := range entries {
		if cr.Bill.Additional == nil {
			continue
		}
		suffix := fmt.Sprintf(" (%d drops)", cr.Bill.Additional.Destinations)
		rows = append(rows, rowFor(cr, cr.Bill.Additional.Amount, suffix))
	}
	path := filepath.Join(r.OutputDir(submissionDate), string(models.KindAdditionalBill)+".xlsx")
	if err := r.renderBill(templates.AdditionalBill, path, billing.AdditionalBillNumber(submissionDate), submissionDate, rows); err != nil {
		return models.Artifact{}, fmt.Errorf("render additional bill: %w", err)
	}
	return models.Artifact{Kind: models.KindAdditionalBill, Path: path}, nil
}

func rowFor(cr billing.ClassifiedRecord, amount int64, routeSuffix string) billRow {
	row := billRow{
		recordID:  cr.Record.ID,
		vehicleNo: cr.Record.VehicleNo,
		route:     cr.Record.Origin + " - " + cr.Record.Destination + routeSuffix,
		amount:    amount,
	}
	if !cr.Record.Date.IsZero() {
		row.date = cr.Record.Date.Format(DateLayout)
	}
	return row
}

func (r *Renderer) renderBill(name, path, billNo, submissionDate string, rows []billRow) error {
	f := newForm()
	r.letterhead(f)
	f.text(templates.FieldBillNo, billNo)
	f.text(templates.FieldSubmissionDate, submissionDate)

	return r.render(name, path, func(doc *excelize.File, l templates.Layout) error {
		if err := fill(doc, l, f); err != nil {
			return err
		}
		return writeTable(doc, l, rows)
	})
}

// writeTable writes entry rows from the table's first row down, then a
// total row and the total in words below it.
func writeTable(doc *excelize.File, l templates.Layout, rows []billRow) error {
	t := l.Table
	styles := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		id, err := doc.GetCellStyle(l.Sheet, fmt.Sprintf("%s%d", col, t.FirstRow))
		if err != nil {
			return err
		}
		styles[i] = id
	}

	var total int64
	for i, row := range rows {
		n := t.FirstRow + i
		values := []interface{}{i + 1, row.recordID, row.date, row.vehicleNo, row.route, row.amount}
		for j, col := range t.Columns {
			cell := fmt.Sprintf("%s%d", col, n)
			if s, ok := values[j].(string); ok && s == "" {
				continue
			}
			if err := doc.SetCellValue(l.Sheet, cell, values[j]); err != nil {
				return err
			}
			if err := doc.SetCellStyle(l.Sheet, cell, cell, styles[j]); err != nil {
				return err
			}
		}
		total += row.amount
	}

	totalRow := t.FirstRow + len(rows)
	if len(rows) == 0 {
		totalRow++
	}
	last := t.Columns[len(t.Columns)-1]
	label := t.Columns[len(t.Columns)-2]
	if err := doc.SetCellValue(l.Sheet, fmt.Sprintf("%s%d", label, totalRow), "TOTAL"); err != nil {
		return err
	}
	if err := doc.SetCellValue(l.Sheet, fmt.Sprintf("%s%d", last, totalRow), total); err != nil {
		return err
	}
	return doc.SetCellValue(l.Sheet, fmt.Sprintf("%s%d", t.Columns[0], totalRow+2), utils.AmountInWords(total))
}
