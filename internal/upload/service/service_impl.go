package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/smallbiznis/farmstand/internal/blob"
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/observability/metrics"
	"github.com/smallbiznis/farmstand/internal/upload/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Blobs   blob.Store
	Policy  *config.UploadPolicyHolder
	GenID   *snowflake.Node
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	blobs   blob.Store
	policy  *config.UploadPolicyHolder
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("upload.service"),
		blobs:   p.Blobs,
		policy:  p.Policy,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) Store(ctx context.Context, req domain.StoreRequest) (*domain.Result, error) {
	if req.Body == nil {
		return nil, domain.ErrNoFile
	}
	policy := s.policy.Get()

	if req.Size > policy.MaxBytes {
		s.metrics.RecordUpload("too_large")
		return nil, tooLarge(req.Size, policy.MaxBytes)
	}

	// Read one byte past the limit so oversized bodies with a lying size are caught.
	data, err := io.ReadAll(io.LimitReader(req.Body, policy.MaxBytes+1))
	if err != nil {
		s.metrics.RecordUpload("error")
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrNoFile
	}
	if int64(len(data)) > policy.MaxBytes {
		s.metrics.RecordUpload("too_large")
		return nil, tooLarge(int64(len(data)), policy.MaxBytes)
	}

	mtype := mimetype.Detect(data)
	if !policy.Allows(mtype.String()) {
		s.metrics.RecordUpload("rejected_type")
		s.log.Info("upload rejected",
			zap.String("filename", req.Filename),
			zap.String("declared_type", req.DeclaredType),
			zap.String("detected_type", mtype.String()),
		)
		return nil, fmt.Errorf("%w: %s (allowed: %s)", domain.ErrUnsupportedType, mtype.String(), strings.Join(policy.AllowedTypes, ", "))
	}
	if declared := strings.TrimSpace(req.DeclaredType); declared != "" && !mtype.Is(declared) {
		s.log.Debug("declared content type differs from content",
			zap.String("declared_type", declared),
			zap.String("detected_type", mtype.String()),
		)
	}

	key := s.genID.Generate().String() + extension(req.Filename, mtype)
	info, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: mtype.String()})
	if err != nil {
		s.metrics.RecordUpload("error")
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.metrics.RecordUpload("stored")
	s.log.Info("upload stored",
		zap.String("key", info.Key),
		zap.String("content_type", mtype.String()),
		zap.String("size", humanize.IBytes(uint64(info.Size))),
	)
	return &domain.Result{
		Success:  true,
		URL:      domain.URLPrefix + info.Key,
		Filename: info.Key,
	}, nil
}

func (s *Service) Open(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	info, body, err := s.blobs.Get(ctx, strings.TrimPrefix(key, "/"))
	if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
		return blob.Info{}, nil, domain.ErrNotFound
	}
	return info, body, err
}

func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimPrefix(key, domain.URLPrefix), "/")
	existed, err := s.blobs.Delete(ctx, key)
	if errors.Is(err, blob.ErrInvalidKey) || (err == nil && !existed) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}

	s.metrics.RecordUpload("deleted")
	s.log.Info("upload deleted", zap.String("key", key))
	return nil
}

// extension keeps the client's extension when it has one, otherwise uses
// the one matching the detected type.
func extension(filename string, mtype *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 1 && len(ext) <= 6 && isAlnum(ext[1:]) {
		return ext
	}
	return mtype.Extension()
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func tooLarge(size, limit int64) error {
	return fmt.Errorf("%w: %s exceeds the %s limit", domain.ErrTooLarge, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
}
