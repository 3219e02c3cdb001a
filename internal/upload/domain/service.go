package domain

import (
	"context"
	"errors"
	"io"

	"github.com/smallbiznis/farmstand/internal/blob"
)

// Result is what the upload endpoint answers with.
type Result struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type Service interface {
	// Store validates an uploaded image and saves it under a generated name.
	Store(ctx context.Context, req StoreRequest) (*Result, error)
	Open(ctx context.Context, key string) (blob.Info, io.ReadCloser, error)
	// Delete removes a stored upload. key may carry the URLPrefix.
	Delete(ctx context.Context, key string) error
}

type StoreRequest struct {
	Filename     string
	DeclaredType string
	Size         int64
	Body         io.Reader
}

const URLPrefix = "/uploads/"

var (
	ErrNoFile          = errors.New("no_file_uploaded")
	ErrUnsupportedType = errors.New("unsupported_file_type")
	ErrTooLarge        = errors.New("file_too_large")
	ErrNotFound        = errors.New("upload_not_found")
)
