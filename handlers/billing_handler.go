package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"transportbilling/batch"
	"transportbilling/logging"
	"transportbilling/models"
)

// BatchRunner runs one bill-generation batch.
type BatchRunner interface {
	Run(ctx context.Context, job models.BatchJob) (*models.BatchResult, error)
}

type BillingHandler struct {
	Runner BatchRunner
}

type generateRequest struct {
	RecordIDs      []string `json:"recordIds"`
	SubmissionDate string   `json:"submissionDate"`
	GeneratePDF    *bool    `json:"generatePdf,omitempty"`
}

// GenerateBills runs a batch and answers with its report: 200 when at
// least one record was billed, 500 when every record failed.
func (h *BillingHandler) GenerateBills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	ids := make([]string, 0, len(req.RecordIDs))
	for _, id := range req.RecordIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || strings.TrimSpace(req.SubmissionDate) == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "recordIds and submissionDate are required",
		})
		return
	}

	// A batch resets the ledger before it starts, so a client that goes
	// away must not cut it short.
	result, err := h.Runner.Run(context.WithoutCancel(r.Context()), models.BatchJob{
		RecordIDs:      ids,
		SubmissionDate: strings.TrimSpace(req.SubmissionDate),
		GeneratePDF:    req.GeneratePDF,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, batch.ErrEmptyBatch) || errors.Is(err, batch.ErrMissingDate) {
			status = http.StatusBadRequest
		}
		logging.Errorf("http: generate bills: %v", err)
		writeJSON(w, status, ApiResponse{
			Success: false,
			Message: "Failed to generate bills: " + err.Error(),
		})
		return
	}

	status := http.StatusOK
	if len(result.Results) == 0 && len(result.Errors) > 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}
