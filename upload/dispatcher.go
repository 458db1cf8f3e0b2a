// Package upload pushes local artifacts to object storage with a bounded
// number of uploads in flight.
package upload

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/semaphore"

	"transportbilling/logging"
	"transportbilling/metrics"
	"transportbilling/models"
	"transportbilling/storage"
)

const DefaultConcurrency = 6

// Dispatcher bounds uploads across all of its callers: concurrent
// UploadMany calls share one pool of slots.
type Dispatcher struct {
	store storage.ObjectStorage
	sem   *semaphore.Weighted
}

func NewDispatcher(store storage.ObjectStorage, limit int) *Dispatcher {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Dispatcher{store: store, sem: semaphore.NewWeighted(int64(limit))}
}

// UploadMany uploads every path into folder and returns one result per
// path in input order. A failed upload never cancels the others.
func (d *Dispatcher) UploadMany(ctx context.Context, paths []string, folder string) []models.UploadResult {
	results := make([]models.UploadResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, p := range paths {
		results[i].Path = p
		if err := d.sem.Acquire(ctx, 1); err != nil {
			results[i].Error = err.Error()
			metrics.Upload("failed")
			continue
		}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			defer d.sem.Release(1)
			results[i] = d.uploadOne(ctx, p, folder)
		}(i, p)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) uploadOne(ctx context.Context, path, folder string) (res models.UploadResult) {
	res.Path = path
	defer func() {
		if rec := recover(); rec != nil {
			res.Success = false
			res.Error = fmt.Sprintf("upload panic: %v", rec)
		}
		if res.Success {
			metrics.Upload("ok")
		} else {
			metrics.Upload("failed")
			logging.Warnf("upload: %s: %s", path, res.Error)
		}
	}()

	sum, err := Checksum(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	url, err := d.store.Put(ctx, path, folder)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.URL = url
	res.Checksum = sum
	return res
}

// Checksum returns the hex blake2b-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
