// Package storage pushes generated documents to durable object storage.
package storage

import (
	"context"
	"errors"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStorage is the object-store client the pipeline consumes. Every
// method returns the public URL (or key) of the object it wrote.
type ObjectStorage interface {
	Put(ctx context.Context, localPath, folder string) (string, error)
	PutBuffer(ctx context.Context, data []byte, key, contentType string) (string, error)
	Delete(ctx context.Context, urlOrKey string) error
}

// ObjectKey mirrors the local per-date folder layout in the bucket.
func ObjectKey(folder, localPath string) string {
	folder = strings.Trim(filepath.ToSlash(folder), "/")
	name := filepath.Base(localPath)
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pdf":  "application/pdf",
	".html": "text/html; charset=utf-8",
}

func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// publicURL joins an escaped key onto base, or returns the key when no
// public base is configured.
func publicURL(base, key string) string {
	if base == "" {
		return key
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// keyFromURL accepts either a bare key or a URL produced by publicURL.
func keyFromURL(base, urlOrKey string) (string, error) {
	if base != "" && strings.HasPrefix(urlOrKey, strings.TrimRight(base, "/")+"/") {
		escaped := strings.TrimPrefix(urlOrKey, strings.TrimRight(base, "/")+"/")
		return url.PathUnescape(escaped)
	}
	if strings.Contains(urlOrKey, "://") {
		u, err := url.Parse(urlOrKey)
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(u.Path, "/"), nil
	}
	return strings.TrimPrefix(urlOrKey, "/"), nil
}
