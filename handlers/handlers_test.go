package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"transportbilling/mocks"
	"transportbilling/models"
	"transportbilling/templates"
)

type runnerFunc func(ctx context.Context, job models.BatchJob) (*models.BatchResult, error)

func (f runnerFunc) Run(ctx context.Context, job models.BatchJob) (*models.BatchResult, error) {
	return f(ctx, job)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/bills/generate", strings.NewReader(body)))
	return rec
}

func TestGenerateBills_BadRequests(t *testing.T) {
	called := false
	h := &BillingHandler{Runner: runnerFunc(func(context.Context, models.BatchJob) (*models.BatchResult, error) {
		called = true
		return nil, nil
	})}

	for _, body := range []string{
		`not json`,
		`{"recordIds":[],"submissionDate":"15-03-2025"}`,
		`{"recordIds":["  "],"submissionDate":"15-03-2025"}`,
		`{"recordIds":["LR/1"],"submissionDate":""}`,
	} {
		rec := post(h.GenerateBills, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.False(t, called)

	rec := httptest.NewRecorder()
	h.GenerateBills(rec, httptest.NewRequest(http.MethodGet, "/bills/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateBills_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		result *models.BatchResult
		want   int
	}{
		{"full success", &models.BatchResult{Results: []models.ItemSuccess{{RecordID: "LR/1"}}, Errors: []models.ItemError{}}, http.StatusOK},
		{"partial", &models.BatchResult{Results: []models.ItemSuccess{{RecordID: "LR/1"}}, Errors: []models.ItemError{{RecordID: "LR/2", Reason: "record not found"}}}, http.StatusOK},
		{"all failed", &models.BatchResult{Results: []models.ItemSuccess{}, Errors: []models.ItemError{{RecordID: "LR/2", Reason: "record not found"}}}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got models.BatchJob
			h := &BillingHandler{Runner: runnerFunc(func(_ context.Context, job models.BatchJob) (*models.BatchResult, error) {
				got = job
				return tc.result, nil
			})}

			rec := post(h.GenerateBills, `{"recordIds":[" LR/1 ","LR/2"],"submissionDate":"15-03-2025","generatePdf":false}`)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, []string{"LR/1", "LR/2"}, got.RecordIDs)
			require.NotNil(t, got.GeneratePDF)
			assert.False(t, *got.GeneratePDF)

			var body models.BatchResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Results, len(tc.result.Results))
			assert.Len(t, body.Errors, len(tc.result.Errors))
		})
	}
}

func TestGenerateBills_ConfigurationError(t *testing.T) {
	h := &BillingHandler{Runner: runnerFunc(func(context.Context, models.BatchJob) (*models.BatchResult, error) {
		return nil, templates.ErrTemplateMissing
	})}
	rec := post(h.GenerateBills, `{"recordIds":["LR/1"],"submissionDate":"15-03-2025"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "template file missing")
}

func TestGenerateBills_ClientGoneDoesNotCancelBatch(t *testing.T) {
	type ctxKey struct{}
	var runErr error
	var traced interface{}
	h := &BillingHandler{Runner: runnerFunc(func(ctx context.Context, job models.BatchJob) (*models.BatchResult, error) {
		runErr = ctx.Err()
		traced = ctx.Value(ctxKey{})
		return &models.BatchResult{Results: []models.ItemSuccess{{RecordID: "LR/1"}}, Errors: []models.ItemError{}}, nil
	})}

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/bills/generate",
		strings.NewReader(`{"recordIds":["LR/1"],"submissionDate":"15-03-2025"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.GenerateBills(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, runErr)
	assert.Equal(t, "req-1", traced)
}

func TestLRHandler(t *testing.T) {
	repo := new(mocks.MockLRRepository)
	repo.On("ListAll", mock.Anything).Return([]*models.LRRecord{
		{ID: "LR/1", Status: models.StatusPending},
		{ID: "LR/2", Status: models.StatusBilled},
	}, nil)
	repo.On("GetRecord", mock.Anything, "LR/1").Return(&models.LRRecord{ID: "LR/1"}, nil)
	repo.On("GetRecord", mock.Anything, "LR/9").Return(nil, nil)
	repo.On("GetRecord", mock.Anything, "LR/err").Return(nil, errors.New("conn reset"))
	h := &LRHandler{Repo: repo}

	rec := httptest.NewRecorder()
	h.ListLR(rec, httptest.NewRequest(http.MethodGet, "/lr?status=billed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    []*models.LRRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "LR/2", resp.Data[0].ID)

	rec = httptest.NewRecorder()
	h.GetLR(rec, httptest.NewRequest(http.MethodGet, "/lr/LR/1", nil), "LR/1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetLR(rec, httptest.NewRequest(http.MethodGet, "/lr/LR/9", nil), "LR/9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetLR(rec, httptest.NewRequest(http.MethodGet, "/lr/LR/err", nil), "LR/err")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecoverWrapper(t *testing.T) {
	h := RecoverWrapper(func(http.ResponseWriter, *http.Request) { panic("nil map") })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
