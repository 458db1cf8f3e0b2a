package models

// BatchJob is one bill-generation run over a set of records.
type BatchJob struct {
	RecordIDs      []string `json:"recordIds"`
	SubmissionDate string   `json:"submissionDate"`
	Concurrency    int      `json:"concurrency,omitempty"`
	GeneratePDF    *bool    `json:"generatePdf,omitempty"`
}

// ItemSuccess describes one record that went through the whole pipeline.
type ItemSuccess struct {
	RecordID         string         `json:"recordId"`
	Category         string         `json:"category"`
	VehicleType      string         `json:"vehicleType"`
	Amount           int64          `json:"amount"`
	DriverPayment    int64          `json:"driverPayment"`
	AdditionalAmount int64          `json:"additionalAmount,omitempty"`
	NeedsReview      bool           `json:"needsReview,omitempty"`
	ReviewReason     string         `json:"reviewReason,omitempty"`
	Artifacts        []Artifact     `json:"artifacts"`
	Uploads          []UploadResult `json:"uploads"`
}

// ItemError describes one record that failed.
type ItemError struct {
	RecordID string `json:"recordId"`
	Reason   string `json:"reason"`
}

// BatchSummary holds aggregate counts for a run.
type BatchSummary struct {
	Total      int `json:"total"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Rework     int `json:"rework"`
	Regular    int `json:"regular"`
	Additional int `json:"additional"`
}

// BatchResult is the report returned to the HTTP layer.
type BatchResult struct {
	BatchID        string         `json:"batchId"`
	SubmissionDate string         `json:"submissionDate"`
	Results        []ItemSuccess  `json:"results"`
	Errors         []ItemError    `json:"errors"`
	BatchDocuments []Artifact     `json:"batchDocuments,omitempty"`
	BatchUploads   []UploadResult `json:"batchUploads,omitempty"`
	BatchErrors    []string       `json:"batchErrors,omitempty"`
	LedgerError    string         `json:"ledgerError,omitempty"`
	Summary        BatchSummary   `json:"summary"`
}
