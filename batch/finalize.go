package batch

import (
	"context"
	"fmt"

	"transportbilling/billing"
	"transportbilling/logging"
	"transportbilling/models"
)

// batchDocuments renders the batch-level rework and additional bills from
// the successfully processed records. Failures are reported on the result
// and never touch item outcomes.
func (o *Orchestrator) batchDocuments(ctx context.Context, result *models.BatchResult, billed []billing.ClassifiedRecord, date string, genPDF bool) {
	var rework, additional []billing.ClassifiedRecord
	for _, cr := range billed {
		switch {
		case cr.Bill.Category == billing.Rework:
			rework = append(rework, cr)
		case cr.Bill.IsAdditional():
			additional = append(additional, cr)
		}
	}

	type job struct {
		entries []billing.ClassifiedRecord
		render  func([]billing.ClassifiedRecord, string) (models.Artifact, error)
	}
	for _, j := range []job{
		{rework, o.Renderer.RenderReworkBill},
		{additional, o.Renderer.RenderAdditionalBill},
	} {
		if len(j.entries) == 0 {
			continue
		}
		art, err := j.render(j.entries, date)
		if err != nil {
			logging.Errorf("batch %s: %v", result.BatchID, err)
			result.BatchErrors = append(result.BatchErrors, err.Error())
			continue
		}
		if genPDF {
			if pdfPath, ok := o.PDF.ToPDF(ctx, art.Path); ok {
				art.PDFPath = pdfPath
			}
		}
		o.publish(ctx, result, art, date)
	}
}

// appendLedger runs the one sequential ledger pass for the batch and
// uploads the ledger when it changed.
func (o *Orchestrator) appendLedger(ctx context.Context, result *models.BatchResult, billed []billing.ClassifiedRecord, date string) {
	appended, err := o.Ledger.AppendBatch(billed, date)
	if err != nil {
		logging.Errorf("batch %s: ledger: %v", result.BatchID, err)
		result.LedgerError = err.Error()
	}
	if appended == 0 {
		return
	}
	o.publish(ctx, result, models.Artifact{Kind: models.KindLedger, Path: o.Ledger.Path(date)}, date)
}

func (o *Orchestrator) publish(ctx context.Context, result *models.BatchResult, art models.Artifact, date string) {
	result.BatchDocuments = append(result.BatchDocuments, art)
	uploads := o.Uploader.UploadMany(ctx, art.Paths(), uploadFolder(date))
	result.BatchUploads = append(result.BatchUploads, uploads...)
	for _, u := range uploads {
		if !u.Success {
			result.BatchErrors = append(result.BatchErrors, fmt.Sprintf("upload %s: %s", u.Path, u.Error))
		}
	}
}
