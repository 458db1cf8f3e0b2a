package handlers

import (
	"net/http"

	"transportbilling/models"
	"transportbilling/repository"
)

type LRHandler struct {
	Repo repository.LRRepository
}

// ListLR returns every lorry receipt, optionally filtered by ?status=.
func (h *LRHandler) ListLR(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to list records: " + err.Error(),
		})
		return
	}

	status := r.URL.Query().Get("status")
	out := make([]*models.LRRecord, 0, len(list))
	for _, rec := range list {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}

	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: out})
}

// GetLR returns one lorry receipt by id.
func (h *LRHandler) GetLR(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.Repo.GetRecord(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to fetch record: " + err.Error(),
		})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{
			Success: false,
			Message: "Record not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: rec})
}
