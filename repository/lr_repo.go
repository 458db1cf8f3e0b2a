package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"transportbilling/models"
)

var ErrFieldNotAllowed = errors.New("field cannot be updated")

// LRRepository is the record store the billing pipeline reads from and
// stamps billing results back into. GetRecord returns nil, nil when the
// record does not exist.
type LRRepository interface {
	GetRecord(ctx context.Context, id string) (*models.LRRecord, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	ListAll(ctx context.Context) ([]*models.LRRecord, error)
}

// updatable lists the columns the billing pipeline may write.
var updatable = map[string]bool{
	"status":          true,
	"bill_amount":     true,
	"submission_date": true,
	"billed_at":       true,
	"artifact_urls":   true,
	"remarks":         true,
}

// updateColumns validates fields and returns their keys in a stable order.
func updateColumns(fields map[string]interface{}) ([]string, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}
	cols := make([]string, 0, len(fields))
	for k := range fields {
		if !updatable[k] {
			return nil, fmt.Errorf("%w: %s", ErrFieldNotAllowed, k)
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}
