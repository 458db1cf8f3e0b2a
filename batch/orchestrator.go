// Package batch runs bill generation over a set of lorry receipts with a
// bounded pool of workers, then performs the single-pass ledger update.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"transportbilling/billing"
	"transportbilling/ledger"
	"transportbilling/logging"
	"transportbilling/metrics"
	"transportbilling/models"
	"transportbilling/renderer"
	"transportbilling/repository"
	"transportbilling/templates"
	"transportbilling/utils"
)

const DefaultConcurrency = 8

var (
	ErrEmptyBatch     = errors.New("no record ids given")
	ErrMissingDate    = errors.New("submission date is required")
	ErrRecordNotFound = errors.New("record not found")
	ErrMissingField   = errors.New("record is missing a required field")
	ErrStatusUpdate   = errors.New("could not mark record as billed")
	ErrUploadFailed   = errors.New("artifact upload failed")
	ErrDuplicateID    = errors.New("record id repeated in batch")
)

// PDFRenderer converts a rendered document; false means no PDF, which is
// not an error.
type PDFRenderer interface {
	ToPDF(ctx context.Context, srcPath string) (string, bool)
}

// Uploader returns one result per path, in order.
type Uploader interface {
	UploadMany(ctx context.Context, paths []string, folder string) []models.UploadResult
}

type Deps struct {
	Repo        repository.LRRepository
	Classifier  *billing.Classifier
	Templates   *templates.Store
	Renderer    *renderer.Renderer
	Ledger      *ledger.Writer
	PDF         PDFRenderer // nil disables PDFs
	Uploader    Uploader
	Concurrency int
	GeneratePDF bool
}

type Orchestrator struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Orchestrator {
	if d.Concurrency <= 0 {
		d.Concurrency = DefaultConcurrency
	}
	return &Orchestrator{Deps: d, now: time.Now}
}

// outcome is what one worker leaves in its slot of the results table.
type outcome struct {
	success    *models.ItemSuccess
	classified billing.ClassifiedRecord
	err        error
}

// Run processes every record of the job. Per-item failures land in the
// result's Errors; only configuration problems (missing templates, an
// unwritable ledger) return an error.
func (o *Orchestrator) Run(ctx context.Context, job models.BatchJob) (*models.BatchResult, error) {
	if len(job.RecordIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	date := strings.TrimSpace(job.SubmissionDate)
	if date == "" {
		return nil, ErrMissingDate
	}

	start := o.now()
	if err := o.Templates.Preload(templates.All...); err != nil {
		return nil, err
	}
	if err := o.Ledger.Reset(date); err != nil {
		return nil, fmt.Errorf("reset ledger: %w", err)
	}

	limit := o.Concurrency
	if job.Concurrency > 0 {
		limit = job.Concurrency
	}
	genPDF := o.GeneratePDF && o.PDF != nil
	if job.GeneratePDF != nil {
		genPDF = *job.GeneratePDF && o.PDF != nil
	}

	result := &models.BatchResult{
		BatchID:        uuid.NewString(),
		SubmissionDate: date,
		Results:        []models.ItemSuccess{},
		Errors:         []models.ItemError{},
	}
	unique, slot := dedupe(job.RecordIDs)
	logging.Infof("batch %s: %d records for %s, %d workers", result.BatchID, len(unique), date, min(limit, len(unique)))

	outcomes := o.runPool(ctx, unique, date, genPDF, limit)

	var billed []billing.ClassifiedRecord
	for i, id := range job.RecordIDs {
		var oc outcome
		if slot[i] < 0 {
			oc.err = fmt.Errorf("%w: %s", ErrDuplicateID, id)
		} else {
			oc = outcomes[slot[i]]
		}
		if oc.err != nil {
			result.Errors = append(result.Errors, models.ItemError{RecordID: id, Reason: oc.err.Error()})
			metrics.BatchItem("failed", "")
			continue
		}
		result.Results = append(result.Results, *oc.success)
		billed = append(billed, oc.classified)
		metrics.BatchItem("ok", string(oc.classified.Bill.Category))
	}

	o.batchDocuments(ctx, result, billed, date, genPDF)
	o.appendLedger(ctx, result, billed, date)

	result.Summary = summarize(result, billed)
	metrics.BatchDuration(o.now().Sub(start).Seconds())
	logging.Infof("batch %s: %d succeeded, %d failed", result.BatchID, result.Summary.Succeeded, result.Summary.Failed)
	return result, nil
}

// dedupe keeps the first occurrence of each id. slot[i] is the index of
// ids[i] in unique, or -1 for a repeat.
func dedupe(ids []string) (unique []string, slot []int) {
	seen := make(map[string]int, len(ids))
	slot = make([]int, len(ids))
	for i, id := range ids {
		if _, ok := seen[id]; ok {
			slot[i] = -1
			continue
		}
		seen[id] = len(unique)
		slot[i] = len(unique)
		unique = append(unique, id)
	}
	return unique, slot
}

// runPool claims indices from a shared atomic cursor so every record is
// processed exactly once. outcomes[i] always belongs to ids[i].
func (o *Orchestrator) runPool(ctx context.Context, ids []string, date string, genPDF bool, limit int) []outcome {
	outcomes := make([]outcome, len(ids))
	var cursor atomic.Int64
	var wg sync.WaitGroup

	workers := min(limit, len(ids))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1) - 1)
				if i >= len(ids) {
					return
				}
				outcomes[i] = o.processItem(ctx, ids[i], date, genPDF)
			}
		}()
	}
	wg.Wait()
	return outcomes
}

// processItem is the per-record pipeline. A panic anywhere inside becomes
// this record's error.
func (o *Orchestrator) processItem(ctx context.Context, id, date string, genPDF bool) (oc outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := make([]byte, 4*1024)
			stack = stack[:runtime.Stack(stack, false)]
			logging.Errorf("batch: panic processing %s: %v\n%s", id, rec, stack)
			oc = outcome{err: fmt.Errorf("internal error: %v", rec)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}

	rec, err := o.Repo.GetRecord(ctx, id)
	if err != nil {
		return outcome{err: fmt.Errorf("fetch record: %w", err)}
	}
	if rec == nil {
		return outcome{err: fmt.Errorf("%w: %s", ErrRecordNotFound, id)}
	}
	if err := validate(rec); err != nil {
		return outcome{err: err}
	}

	cr := billing.ClassifiedRecord{Record: rec, Bill: o.Classifier.Classify(rec)}
	if cr.Bill.NeedsReview {
		logging.Warnf("batch: %s needs review: %s", id, cr.Bill.ReviewReason)
	}

	artifacts, err := o.renderItem(cr, date)
	if err != nil {
		return outcome{err: err}
	}
	if genPDF {
		for i := range artifacts {
			if pdfPath, ok := o.PDF.ToPDF(ctx, artifacts[i].Path); ok {
				artifacts[i].PDFPath = pdfPath
			}
		}
	}

	var paths []string
	for _, a := range artifacts {
		paths = append(paths, a.Paths()...)
	}
	uploads := o.Uploader.UploadMany(ctx, paths, uploadFolder(date))
	var urls []string
	for _, u := range uploads {
		if !u.Success {
			return outcome{err: fmt.Errorf("%w: %s: %s", ErrUploadFailed, u.Path, u.Error)}
		}
		urls = append(urls, u.URL)
	}

	ok, err := o.Repo.UpdateRecord(ctx, id, map[string]interface{}{
		"status":          models.StatusBilled,
		"bill_amount":     cr.Bill.EffectiveAmount,
		"submission_date": date,
		"billed_at":       o.now().UTC(),
		"artifact_urls":   urls,
	})
	if err != nil {
		return outcome{err: fmt.Errorf("%w: %v", ErrStatusUpdate, err)}
	}
	if !ok {
		return outcome{err: fmt.Errorf("%w: no row matched %s", ErrStatusUpdate, id)}
	}

	s := &models.ItemSuccess{
		RecordID:      id,
		Category:      string(cr.Bill.Category),
		VehicleType:   cr.Bill.VehicleType,
		Amount:        cr.Bill.EffectiveAmount,
		DriverPayment: cr.Bill.DriverPayment,
		NeedsReview:   cr.Bill.NeedsReview,
		ReviewReason:  cr.Bill.ReviewReason,
		Artifacts:     artifacts,
		Uploads:       uploads,
	}
	if cr.Bill.IsAdditional() {
		s.AdditionalAmount = cr.Bill.Additional.Amount
	}
	return outcome{success: s, classified: cr}
}

// renderItem writes the shipment copy, plus the regular invoice unless the
// record is billed on the batch rework bill.
func (o *Orchestrator) renderItem(cr billing.ClassifiedRecord, date string) ([]models.Artifact, error) {
	shipment, err := o.Renderer.RenderShipmentCopy(cr, date)
	if err != nil {
		return nil, err
	}
	artifacts := []models.Artifact{shipment}
	if cr.Bill.Category == billing.Rework {
		return artifacts, nil
	}
	invoice, err := o.Renderer.RenderInvoice(cr, date)
	if err != nil {
		return nil, err
	}
	return append(artifacts, invoice), nil
}

func validate(rec *models.LRRecord) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	switch {
	case strings.TrimSpace(rec.ID) == "":
		return missing("id")
	case strings.TrimSpace(rec.Origin) == "":
		return missing("origin")
	case strings.TrimSpace(rec.Destination) == "":
		return missing("destination")
	case strings.TrimSpace(rec.VehicleNo) == "":
		return missing("vehicle_no")
	case rec.Date.IsZero():
		return missing("date")
	}
	return nil
}

func uploadFolder(date string) string {
	return utils.SanitizeFileName(date)
}

func summarize(result *models.BatchResult, billed []billing.ClassifiedRecord) models.BatchSummary {
	s := models.BatchSummary{
		Total:     len(result.Results) + len(result.Errors),
		Succeeded: len(result.Results),
		Failed:    len(result.Errors),
	}
	for _, cr := range billed {
		if cr.Bill.Category == billing.Rework {
			s.Rework++
			continue
		}
		s.Regular++
		if cr.Bill.IsAdditional() {
			s.Additional++
		}
	}
	return s
}
