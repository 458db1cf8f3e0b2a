// Package pdf turns rendered spreadsheets into page-formatted PDFs.
// A missing PDF is a degraded outcome, never a failure of the caller.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transportbilling/logging"
	"transportbilling/metrics"
)

// ErrConverterAbsent means the tier's tool is not installed on the host.
var ErrConverterAbsent = errors.New("converter not available on host")

// Converter produces a PDF next to srcPath and returns its path.
type Converter interface {
	Convert(ctx context.Context, srcPath string) (string, error)
}

// Tier is one step of the fallback chain.
type Tier struct {
	Name      string
	Converter Converter
}

// Renderer tries each tier in order, bounding every attempt by timeout.
type Renderer struct {
	tiers   []Tier
	timeout time.Duration
}

func NewRenderer(timeout time.Duration, tiers ...Tier) *Renderer {
	return &Renderer{tiers: tiers, timeout: timeout}
}

// ToPDF returns the PDF path and true, or "" and false when every tier failed.
func (r *Renderer) ToPDF(ctx context.Context, srcPath string) (string, bool) {
	for _, t := range r.tiers {
		out, err := r.try(ctx, t, srcPath)
		if err == nil {
			metrics.PDFRender(t.Name, "ok")
			return out, true
		}
		metrics.PDFRender(t.Name, "failed")
		logging.Warnf("pdf: %s tier failed for %s: %v", t.Name, srcPath, err)
	}
	metrics.PDFRender("none", "unavailable")
	logging.Warnf("pdf: no PDF for %s", srcPath)
	return "", false
}

func (r *Renderer) try(ctx context.Context, t Tier, srcPath string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	out, err = t.Converter.Convert(ctx, srcPath)
	if err == nil && out == "" {
		err = errors.New("converter returned no output")
	}
	return out, err
}
