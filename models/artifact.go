package models

// ArtifactKind names the logical document an artifact represents.
type ArtifactKind string

const (
	KindShipmentCopy   ArtifactKind = "shipment-copy"
	KindInvoice        ArtifactKind = "invoice"
	KindReworkBill     ArtifactKind = "rework-bill"
	KindAdditionalBill ArtifactKind = "additional-bill"
	KindLedger         ArtifactKind = "ledger"
)

// Artifact is a generated document on local storage.
type Artifact struct {
	Kind    ArtifactKind `json:"kind"`
	Path    string       `json:"path"`
	PDFPath string       `json:"pdf_path,omitempty"` // empty when no PDF could be produced
}

// Paths returns the local files that should be uploaded for this artifact.
func (a Artifact) Paths() []string {
	if a.PDFPath == "" {
		return []string{a.Path}
	}
	return []string{a.Path, a.PDFPath}
}

// UploadResult is the outcome of pushing one local file to object storage.
type UploadResult struct {
	Path     string `json:"path"`
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	Error    string `json:"error,omitempty"`
}
