package templates

// Template file names inside the template directory.
const (
	ShipmentCopy   = "shipment_copy.xlsx"
	Invoice        = "invoice.xlsx"
	ReworkBill     = "rework_bill.xlsx"
	AdditionalBill = "additional_bill.xlsx"
	Ledger         = "ledger.xlsx"
)

// All lists every template a batch run depends on.
var All = []string{ShipmentCopy, Invoice, ReworkBill, AdditionalBill, Ledger}

// Logical field names used in cell maps.
const (
	FieldCompanyName      = "company_name"
	FieldCompanyAddress   = "company_address"
	FieldCompanyGSTIN     = "company_gstin"
	FieldLRNo             = "lr_no"
	FieldLRDate           = "lr_date"
	FieldVehicleNo        = "vehicle_no"
	FieldVehicleType      = "vehicle_type"
	FieldOrigin           = "origin"
	FieldDestination      = "destination"
	FieldConsignor        = "consignor"
	FieldConsignee        = "consignee"
	FieldGoods            = "goods"
	FieldQuantity         = "quantity"
	FieldGateEntryNo      = "gate_entry_no"
	FieldInvoiceNo        = "invoice_no"
	FieldWeightSlipNo     = "weight_slip_no"
	FieldRemarks          = "remarks"
	FieldDriverPayment    = "driver_payment"
	FieldBillNo           = "bill_no"
	FieldSubmissionDate   = "submission_date"
	FieldDestinationCount = "destination_count"
	FieldAmount           = "amount"
	FieldAmountInWords    = "amount_in_words"
)

// Layout is the fixed cell map of one template.
type Layout struct {
	Sheet string
	// Cells maps a single-valued field to its coordinate.
	Cells map[string]string
	// Lines maps a multi-valued field to a fixed run of coordinates.
	Lines map[string][]string
	// Table is set for templates that list batch entries.
	Table *TableLayout
}

// TableLayout describes a list of entry rows starting at FirstRow.
// FirstRow holds the formatting every entry row inherits.
type TableLayout struct {
	FirstRow int
	Columns  []string // serial, lr no, date, vehicle no, route, amount
}

// Ledger columns. Column A carries both section headers and serial numbers.
const (
	LedgerSheet        = "Ledger"
	LedgerBannerCell   = "B2"
	LedgerCaptionRow   = 4
	LedgerFirstSection = 5

	LedgerColSerial    = "A"
	LedgerColRecordID  = "B"
	LedgerColDate      = "C"
	LedgerColVehicleNo = "D"
	LedgerColAmount    = "E"
	LedgerColBillRef   = "F"
)

// LedgerColumns lists the ledger columns left to right.
var LedgerColumns = []string{
	LedgerColSerial, LedgerColRecordID, LedgerColDate,
	LedgerColVehicleNo, LedgerColAmount, LedgerColBillRef,
}

var companyCells = map[string]string{
	FieldCompanyName:    "A1",
	FieldCompanyAddress: "A2",
	FieldCompanyGSTIN:   "A3",
}

func withCompany(cells map[string]string) map[string]string {
	for k, v := range companyCells {
		cells[k] = v
	}
	return cells
}

var layouts = map[string]Layout{
	ShipmentCopy: {
		Sheet: "LR",
		Cells: withCompany(map[string]string{
			FieldLRNo:          "C5",
			FieldLRDate:        "G5",
			FieldVehicleNo:     "C6",
			FieldVehicleType:   "G6",
			FieldOrigin:        "C7",
			FieldDestination:   "G7",
			FieldGateEntryNo:   "C20",
			FieldInvoiceNo:     "C21",
			FieldWeightSlipNo:  "C22",
			FieldRemarks:       "C23",
			FieldDriverPayment: "G20",
		}),
		Lines: map[string][]string{
			FieldConsignor: {"B10", "B11", "B12"},
			FieldConsignee: {"F10", "F11", "F12"},
			FieldGoods:     {"A15", "A16", "A17", "A18"},
			FieldQuantity:  {"E15", "E16", "E17", "E18"},
		},
	},
	Invoice: {
		Sheet: "Invoice",
		Cells: withCompany(map[string]string{
			FieldLRNo:             "C5",
			FieldBillNo:           "G5",
			FieldLRDate:           "C6",
			FieldSubmissionDate:   "G6",
			FieldVehicleNo:        "C7",
			FieldVehicleType:      "G7",
			FieldOrigin:           "C8",
			FieldDestination:      "G8",
			FieldDestinationCount: "G11",
			FieldAmount:           "G15",
			FieldAmountInWords:    "A17",
		}),
		Lines: map[string][]string{
			FieldConsignee: {"B11", "B12", "B13"},
		},
	},
	ReworkBill: {
		Sheet: "Rework Bill",
		Cells: withCompany(map[string]string{
			FieldBillNo:         "F5",
			FieldSubmissionDate: "F6",
		}),
		Table: &TableLayout{FirstRow: 9, Columns: []string{"A", "B", "C", "D", "E", "F"}},
	},
	AdditionalBill: {
		Sheet: "Additional Bill",
		Cells: withCompany(map[string]string{
			FieldBillNo:         "F5",
			FieldSubmissionDate: "F6",
		}),
		Table: &TableLayout{FirstRow: 9, Columns: []string{"A", "B", "C", "D", "E", "F"}},
	},
	Ledger: {
		Sheet: LedgerSheet,
		Cells: map[string]string{FieldSubmissionDate: LedgerBannerCell},
	},
}

// LayoutFor returns the compiled-in layout of a template.
func LayoutFor(name string) (Layout, bool) {
	l, ok := layouts[name]
	return l, ok
}
