package recordstore

import (
	"context"
	"errors"
)

var (
	// ErrCollectionNotFound is returned by a Backend that has never stored the collection.
	ErrCollectionNotFound = errors.New("collection_not_found")
	// ErrPersistence wraps backend write failures surfaced by strict stores.
	ErrPersistence = errors.New("persistence_error")
)

// Backend stores whole collections as opaque JSON documents.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
	Name() string
}
