package markdown

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
)

const ext = ".md"

// Backend is a recordstore.Backend that keeps one <slug>.md document per
// product in a directory. It serves a single collection; the collection
// name passed by the store is ignored.
type Backend struct {
	dir string
}

func NewBackend(dir string) *Backend {
	return &Backend{dir: dir}
}

func (b *Backend) Name() string { return "markdown" }

func (b *Backend) Dir() string { return b.dir }

func (b *Backend) Read(ctx context.Context, _ string) ([]byte, error) {
	products, err := ReadDir(ctx, b.dir)
	if err != nil {
		return nil, err
	}
	return json.Marshal(products)
}

// Write rewrites the documents whose content changed and removes the ones
// whose product is no longer in the collection.
func (b *Backend) Write(ctx context.Context, _ string, data []byte) error {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("markdown: decode collection: %w", err)
	}
	return WriteDir(ctx, b.dir, products)
}

// ReadDir loads every product document in dir, oldest first.
func ReadDir(ctx context.Context, dir string) ([]domain.Product, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, recordstore.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		p, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if p.Slug == "" {
			p.Slug = strings.TrimSuffix(entry.Name(), ext)
		}
		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		return products[i].Slug < products[j].Slug
	})
	return products, nil
}

// WriteDir makes dir hold exactly the given products.
func WriteDir(ctx context.Context, dir string, products []domain.Product) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create products dir: %w", err)
	}

	keep := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Slug == "" || strings.ContainsAny(p.Slug, `/\`) {
			return fmt.Errorf("markdown: invalid slug %q", p.Slug)
		}
		name := p.Slug + ext
		keep[name] = struct{}{}

		doc, err := Encode(p)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, doc) {
			continue
		}
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
