package billing

import (
	"transportbilling/utils"
)

// InvoiceNumber is the bill number printed on a record's regular invoice.
func InvoiceNumber(recordID string) string {
	return "INV-" + utils.SanitizeFileName(recordID)
}

// ReworkBillNumber is the bill number of the batch-level rework bill.
func ReworkBillNumber(submissionDate string) string {
	return "RWK-" + utils.SanitizeFileName(submissionDate)
}

// AdditionalBillNumber is the bill number of the batch-level additional bill.
func AdditionalBillNumber(submissionDate string) string {
	return "ADD-" + utils.SanitizeFileName(submissionDate)
}

// BillReference is the bill a record is charged on, as shown in the ledger.
func (cr ClassifiedRecord) BillReference(submissionDate string) string {
	if cr.Bill.Category == Rework {
		return ReworkBillNumber(submissionDate)
	}
	return InvoiceNumber(cr.Record.ID)
}
