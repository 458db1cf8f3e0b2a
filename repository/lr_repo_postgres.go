package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"transportbilling/models"
)

const lrColumns = `id, lr_date, vehicle_type, vehicle_no, origin, destination, consignor, consignee,
	goods, gate_entry_no, invoice_no, weight_slip_no, remarks, status, bill_amount,
	submission_date, billed_at, artifact_urls, created_at, updated_at`

type PostgresLRRepo struct {
	DB *sql.DB
}

func NewPostgresLRRepo(db *sql.DB) *PostgresLRRepo {
	return &PostgresLRRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLR(s rowScanner) (*models.LRRecord, error) {
	var rec models.LRRecord
	var goods, urls []byte
	err := s.Scan(
		&rec.ID, &rec.Date, &rec.VehicleType, &rec.VehicleNo, &rec.Origin, &rec.Destination,
		&rec.Consignor, &rec.Consignee, &goods, &rec.GateEntryNo, &rec.InvoiceNo, &rec.WeightSlipNo,
		&rec.Remarks, &rec.Status, &rec.BillAmount, &rec.SubmissionDate, &rec.BilledAt, &urls,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(goods) > 0 {
		if err := json.Unmarshal(goods, &rec.Goods); err != nil {
			return nil, fmt.Errorf("decode goods for %s: %w", rec.ID, err)
		}
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &rec.ArtifactURLs); err != nil {
			return nil, fmt.Errorf("decode artifact_urls for %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}

func (r *PostgresLRRepo) GetRecord(ctx context.Context, id string) (*models.LRRecord, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+lrColumns+` FROM lr_record WHERE id = $1`, id)
	rec, err := scanLR(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *PostgresLRRepo) ListAll(ctx context.Context) ([]*models.LRRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+lrColumns+` FROM lr_record ORDER BY lr_date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.LRRecord
	for rows.Next() {
		rec, err := scanLR(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// UpdateRecord writes the whitelisted fields and reports whether a row matched.
func (r *PostgresLRRepo) UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	cols, err := updateColumns(fields)
	if err != nil {
		return false, err
	}

	sets := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+2)
	for i, col := range cols {
		v := fields[col]
		if col == "artifact_urls" {
			raw, err := json.Marshal(v)
			if err != nil {
				return false, fmt.Errorf("encode artifact_urls: %w", err)
			}
			v = raw
		}
		sets = append(sets, fmt.Sprintf("%s=$%d", col, i+1))
		args = append(args, v)
	}
	sets = append(sets, fmt.Sprintf("updated_at=$%d", len(cols)+1))
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf(`UPDATE lr_record SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ LRRepository = (*PostgresLRRepo)(nil)
