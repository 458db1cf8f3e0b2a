package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"transportbilling/handlers"
	"transportbilling/mocks"
	"transportbilling/models"
)

type stubRunner struct{}

func (stubRunner) Run(context.Context, models.BatchJob) (*models.BatchResult, error) {
	return &models.BatchResult{Results: []models.ItemSuccess{{RecordID: "LR/1"}}}, nil
}

func TestRouter(t *testing.T) {
	repo := new(mocks.MockLRRepository)
	repo.On("GetRecord", mock.Anything, "LR/2024/7").Return(&models.LRRecord{ID: "LR/2024/7"}, nil)
	mux := NewRouter(&handlers.LRHandler{Repo: repo}, &handlers.BillingHandler{Runner: stubRunner{}})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/metrics", "").Code)

	rec := do(http.MethodGet, "/lr/LR%2F2024%2F7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LR/2024/7")

	rec = do(http.MethodGet, "/lr/LR/2024/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodOptions, "/bills/generate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(http.MethodPost, "/bills/generate", `{"recordIds":["LR/1"],"submissionDate":"15-03-2025"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(http.MethodDelete, "/lr", "").Code)
}
