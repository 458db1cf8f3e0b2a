package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// DefaultRemarks shows through on shipment copies whose record has no remarks.
const DefaultRemarks = "As per consignor invoice"

type labelSet map[string]string

var shipmentLabels = labelSet{
	"A4":  "LORRY RECEIPT - CONSIGNMENT COPY",
	"B5":  "LR No.",
	"F5":  "Date",
	"B6":  "Vehicle No.",
	"F6":  "Vehicle Type",
	"B7":  "From",
	"F7":  "To",
	"A9":  "Consignor",
	"E9":  "Consignee",
	"A14": "Description of Goods",
	"E14": "Quantity",
	"A20": "Gate Entry No.",
	"A21": "Invoice No.",
	"A22": "Weight Slip No.",
	"A23": "Remarks",
	"F20": "Driver Payment",
	"C23": DefaultRemarks,
}

var invoiceLabels = labelSet{
	"A4":  "TAX INVOICE",
	"B5":  "LR No.",
	"F5":  "Bill No.",
	"B6":  "LR Date",
	"F6":  "Bill Date",
	"B7":  "Vehicle No.",
	"F7":  "Vehicle Type",
	"B8":  "From",
	"F8":  "To",
	"A10": "Consignee",
	"F11": "Destinations",
	"F15": "Freight Amount",
	"A16": "Amount in words",
}

func billLabels(title string) labelSet {
	return labelSet{
		"A4": title,
		"E5": "Bill No.",
		"E6": "Bill Date",
		"A8": "Sr.",
		"B8": "LR No.",
		"C8": "LR Date",
		"D8": "Vehicle No.",
		"E8": "Route",
		"F8": "Amount",
	}
}

// WriteDefaults writes every built-in template into dir. Ledger sections
// are created in the given order.
func WriteDefaults(dir string, sections []string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	for _, name := range All {
		f, err := buildTemplate(name, sections)
		if err != nil {
			return fmt.Errorf("build %s: %w", name, err)
		}
		err = f.SaveAs(filepath.Join(dir, name))
		f.Close()
		if err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

func buildTemplate(name string, sections []string) (*excelize.File, error) {
	switch name {
	case ShipmentCopy:
		return buildForm(ShipmentCopy, shipmentLabels)
	case Invoice:
		return buildForm(Invoice, invoiceLabels)
	case ReworkBill:
		return buildBill(ReworkBill, billLabels("REWORK BILL"))
	case AdditionalBill:
		return buildBill(AdditionalBill, billLabels("ADDITIONAL DESTINATION BILL"))
	case Ledger:
		return BuildLedger(sections)
	}
	return nil, fmt.Errorf("no builder for template %q", name)
}

func newSheet(name string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(name, "A", "H", 16); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeLabels(f *excelize.File, sheet string, labels labelSet) error {
	for cell, text := range labels {
		if err := f.SetCellValue(sheet, cell, text); err != nil {
			return err
		}
	}
	return nil
}

func buildForm(name string, labels labelSet) (*excelize.File, error) {
	layout := layouts[name]
	f, err := newSheet(layout.Sheet)
	if err != nil {
		return nil, err
	}
	if err := writeLabels(f, layout.Sheet, labels); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(layout.Sheet, "A1", "A1", bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func buildBill(name string, labels labelSet) (*excelize.File, error) {
	f, err := buildForm(name, labels)
	if err != nil {
		return nil, err
	}
	layout := layouts[name]
	row, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		f.Close()
		return nil, err
	}
	first := fmt.Sprintf("A%d", layout.Table.FirstRow)
	last := fmt.Sprintf("F%d", layout.Table.FirstRow)
	if err := f.SetCellStyle(layout.Sheet, first, last, row); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

var ledgerCaptions = []string{"Sr.", "LR No.", "LR Date", "Vehicle No.", "Amount", "Bill Ref."}

// BuildLedger creates an empty aggregation ledger with one section per
// vehicle type: a bold header row followed by one formatted blank row.
func BuildLedger(sections []string) (*excelize.File, error) {
	f, err := newSheet(LedgerSheet)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*excelize.File, error) {
		f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail(err)
	}
	entry, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder()})
	if err != nil {
		return fail(err)
	}

	base := labelSet{
		"A1": "AGGREGATION LEDGER",
		"A2": "SUBMISSION DATE",
	}
	for i, caption := range ledgerCaptions {
		base[fmt.Sprintf("%s%d", LedgerColumns[i], LedgerCaptionRow)] = caption
	}
	if err := writeLabels(f, LedgerSheet, base); err != nil {
		return fail(err)
	}

	row := LedgerFirstSection
	for _, name := range sections {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(LedgerSheet, cell, name); err != nil {
			return fail(err)
		}
		if err := f.SetCellStyle(LedgerSheet, cell, fmt.Sprintf("F%d", row), header); err != nil {
			return fail(err)
		}
		if err := f.SetCellStyle(LedgerSheet, fmt.Sprintf("A%d", row+1), fmt.Sprintf("F%d", row+1), entry); err != nil {
			return fail(err)
		}
		row += 2
	}
	return f, nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
