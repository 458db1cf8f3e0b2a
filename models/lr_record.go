package models

import "time"

// Record statuses written by the billing pipeline.
const (
	StatusPending = "pending"
	StatusBilled  = "billed"
)

// LRRecord is a lorry receipt: one physical consignment movement.
type LRRecord struct {
	ID             string     `json:"id" bson:"_id" db:"id"`
	Date           time.Time  `json:"date" bson:"date" db:"lr_date"`
	VehicleType    string     `json:"vehicle_type" bson:"vehicle_type" db:"vehicle_type"`
	VehicleNo      string     `json:"vehicle_no" bson:"vehicle_no" db:"vehicle_no"`
	Origin         string     `json:"origin" bson:"origin" db:"origin"`
	Destination    string     `json:"destination" bson:"destination" db:"destination"`
	Consignor      string     `json:"consignor" bson:"consignor" db:"consignor"` // slash-delimited
	Consignee      string     `json:"consignee" bson:"consignee" db:"consignee"` // slash-delimited, ordered
	Goods          []Goods    `json:"goods,omitempty" bson:"goods,omitempty" db:"goods"`
	GateEntryNo    *string    `json:"gate_entry_no,omitempty" bson:"gate_entry_no,omitempty" db:"gate_entry_no"`
	InvoiceNo      *string    `json:"invoice_no,omitempty" bson:"invoice_no,omitempty" db:"invoice_no"`
	WeightSlipNo   *string    `json:"weight_slip_no,omitempty" bson:"weight_slip_no,omitempty" db:"weight_slip_no"`
	Remarks        *string    `json:"remarks,omitempty" bson:"remarks,omitempty" db:"remarks"`
	Status         string     `json:"status" bson:"status" db:"status"` // pending | billed
	BillAmount     *int64     `json:"bill_amount,omitempty" bson:"bill_amount,omitempty" db:"bill_amount"`
	SubmissionDate *string    `json:"submission_date,omitempty" bson:"submission_date,omitempty" db:"submission_date"`
	BilledAt       *time.Time `json:"billed_at,omitempty" bson:"billed_at,omitempty" db:"billed_at"`
	ArtifactURLs   []string   `json:"artifact_urls,omitempty" bson:"artifact_urls,omitempty" db:"artifact_urls"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}
