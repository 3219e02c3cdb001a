package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/farmstand/internal/clock"
	"github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/pkg/ident"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Clock    clock.Clock
	Validate *validator.Validate `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	clock    clock.Clock
	validate *validator.Validate
}

func New(p Params) domain.Service {
	validate := p.Validate
	if validate == nil {
		validate = validator.New()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		log:      p.Log.Named("location.service"),
		repo:     p.Repo,
		clock:    clk,
		validate: validate,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Location, error) {
	items := s.repo.FindAll(ctx)
	if !req.ActiveOnly {
		return items, nil
	}

	filtered := make([]domain.Location, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	items := s.repo.FindAll(ctx)
	if i := indexOf(items, id); i >= 0 {
		return &items[i], nil
	}
	return nil, domain.ErrNotFound
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Location, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrInvalidName
	}
	base := ident.Slugify(req.Name)
	if base == "" {
		return nil, domain.ErrInvalidName
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var created domain.Location
	err := s.repo.Mutate(ctx, func(items []domain.Location) ([]domain.Location, error) {
		id := ident.Unique(base, func(candidate string) bool {
			return indexOf(items, candidate) >= 0
		})
		if id != base {
			s.log.Info("location id taken, using suffix", zap.String("base", base), zap.String("id", id))
		}

		created = domain.Location{
			ID:                  id,
			Name:                req.Name,
			Address:             strings.TrimSpace(req.Address),
			Coordinates:         req.Coordinates,
			Manager:             strings.TrimSpace(req.Manager),
			Phone:               strings.TrimSpace(req.Phone),
			IsActive:            active,
			Products:            0,
			ProductAvailability: req.ProductAvailability,
			CreatedAt:           s.clock.Now(),
		}
		return append(items, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	var updated domain.Location
	err := s.repo.Mutate(ctx, func(items []domain.Location) ([]domain.Location, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		item := items[i]

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return nil, domain.ErrInvalidName
			}
			item.Name = name
		}
		if patch.Address != nil {
			item.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Coordinates != nil {
			coords := *patch.Coordinates
			item.Coordinates = &coords
		}
		if patch.Manager != nil {
			item.Manager = strings.TrimSpace(*patch.Manager)
		}
		if patch.Phone != nil {
			item.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.IsActive != nil {
			item.IsActive = *patch.IsActive
		}
		if patch.ProductAvailability != nil {
			item.ProductAvailability = *patch.ProductAvailability
		}

		now := s.clock.Now()
		item.UpdatedAt = &now
		items[i] = item
		updated = item
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*domain.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	var deleted domain.Location
	err := s.repo.Mutate(ctx, func(items []domain.Location) ([]domain.Location, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		deleted = items[i]
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	if deleted.Products > 0 {
		s.log.Warn("deleted location still referenced by products",
			zap.String("location_id", deleted.ID),
			zap.Int("products", deleted.Products),
		)
	}
	return &deleted, nil
}

func (s *Service) Resolve(ctx context.Context, id string) (*domain.Location, bool, error) {
	items := s.repo.FindAll(ctx)
	if len(items) == 0 {
		return nil, false, nil
	}

	id = strings.TrimSpace(id)
	if i := indexOf(items, id); i >= 0 {
		return &items[i], false, nil
	}

	first := items[0]
	if id == "" {
		s.log.Debug("no location requested, using first location", zap.String("fallback_id", first.ID))
	} else {
		s.log.Warn("unknown location, using first location",
			zap.String("location_id", id),
			zap.String("fallback_id", first.ID),
		)
	}
	return &first, true, nil
}

func (s *Service) AdjustProductCount(ctx context.Context, id string, delta int) error {
	id = strings.TrimSpace(id)
	if id == "" || delta == 0 {
		return nil
	}

	return s.repo.Mutate(ctx, func(items []domain.Location) ([]domain.Location, error) {
		i := indexOf(items, id)
		if i < 0 {
			return items, nil
		}
		next := items[i].Products + delta
		if next < 0 {
			next = 0
		}
		items[i].Products = next
		return items, nil
	})
}

func (s *Service) Reconcile(ctx context.Context, counts map[string]int) ([]domain.Location, error) {
	var result []domain.Location
	err := s.repo.Mutate(ctx, func(items []domain.Location) ([]domain.Location, error) {
		for i := range items {
			actual := counts[items[i].ID]
			if items[i].Products != actual {
				s.log.Info("location product counter corrected",
					zap.String("location_id", items[i].ID),
					zap.Int("was", items[i].Products),
					zap.Int("now", actual),
				)
				items[i].Products = actual
			}
		}
		result = append([]domain.Location(nil), items...)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func indexOf(items []domain.Location, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
