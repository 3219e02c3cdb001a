package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes int64 = 5 << 20

// UploadPolicy restricts what the upload endpoint accepts.
type UploadPolicy struct {
	AllowedTypes []string `mapstructure:"allowedTypes"`
	MaxBytes     int64    `mapstructure:"maxBytes"`
}

func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		MaxBytes:     defaultMaxUploadBytes,
	}
}

// Allows reports whether mimeType is on the allow-list.
func (p UploadPolicy) Allows(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, allowed := range p.AllowedTypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}

type UploadPolicyHolder struct {
	current atomic.Value // holds UploadPolicy
}

// NewStaticUploadPolicy returns a holder that never reloads.
func NewStaticUploadPolicy(policy UploadPolicy) *UploadPolicyHolder {
	holder := &UploadPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

// NewUploadPolicyHolder reads upload.yml (or cfg.Upload.PolicyPath) and keeps
// the policy current when the file changes.
func NewUploadPolicyHolder(cfg Config, log *zap.Logger) (*UploadPolicyHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.upload")

	v := viper.New()
	if path := strings.TrimSpace(cfg.Upload.PolicyPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("upload")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/farmstand")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FARMSTAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultUploadPolicy()
	v.SetDefault("upload.allowedTypes", defaults.AllowedTypes)
	v.SetDefault("upload.maxBytes", defaults.MaxBytes)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
		watch = false
	}

	var policy UploadPolicy
	if err := v.UnmarshalKey("upload", &policy); err != nil {
		return nil, err
	}
	if err := validateUploadPolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticUploadPolicy(policy)
	if !watch {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated UploadPolicy
		if err := v.UnmarshalKey("upload", &updated); err != nil {
			log.Warn("upload policy reload failed", zap.Error(err))
			return
		}
		if err := validateUploadPolicy(updated); err != nil {
			log.Warn("invalid upload policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("upload policy reloaded", zap.String("file", filepath.Base(e.Name)))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *UploadPolicyHolder) Get() UploadPolicy {
	return h.current.Load().(UploadPolicy)
}

func validateUploadPolicy(p UploadPolicy) error {
	if len(p.AllowedTypes) == 0 {
		return errors.New("upload.allowedTypes cannot be empty")
	}
	if p.MaxBytes <= 0 {
		return errors.New("upload.maxBytes must be positive")
	}
	return nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
