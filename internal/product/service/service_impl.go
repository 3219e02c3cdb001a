package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/farmstand/internal/clock"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/pkg/ident"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Repo      domain.Repository
	Locations locationdomain.Service
	Clock     clock.Clock
	Validate  *validator.Validate `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	locations locationdomain.Service
	clock     clock.Clock
	validate  *validator.Validate
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
		log:       p.Log.Named("product.service"),
		repo:      p.Repo,
		locations: p.Locations,
		clock:     clk,
		validate:  validate,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	items := s.repo.FindAll(ctx)

	category := strings.ToLower(strings.TrimSpace(req.Category))
	locationID := strings.TrimSpace(req.LocationID)
	if category == "" && req.Featured == nil && locationID == "" {
		return items, nil
	}

	filtered := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if category != "" && string(item.Category) != category {
			continue
		}
		if req.Featured != nil && item.Featured != *req.Featured {
			continue
		}
		if locationID != "" && locationKey(item) != locationID && item.LocationID != locationID {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrInvalidSlug
	}

	items := s.repo.FindAll(ctx)
	if i := indexOf(items, slug); i >= 0 {
		return &items[i], nil
	}
	return nil, domain.ErrNotFound
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	base := ident.Slugify(req.Title)
	if base == "" {
		return nil, domain.ErrInvalidTitle
	}

	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	availability, err := parseAvailability(req.Availability)
	if err != nil {
		return nil, err
	}

	locationID := strings.TrimSpace(req.LocationID)
	loc, _, err := s.locations.Resolve(ctx, locationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var created domain.Product
	err = s.repo.Mutate(ctx, func(items []domain.Product) ([]domain.Product, error) {
		slug := ident.Unique(base, func(candidate string) bool {
			return indexOf(items, candidate) >= 0
		})
		if slug != base {
			s.log.Info("product slug taken, using suffix", zap.String("base", base), zap.String("slug", slug))
		}

		created = domain.Product{
			Slug:         slug,
			Title:        req.Title,
			Category:     category,
			Price:        strings.TrimSpace(req.Price),
			Availability: availability,
			Featured:     req.Featured,
			Image:        strings.TrimSpace(req.Image),
			Content:      req.Content,
			Stock:        req.Stock,
			LocationID:   locationID,
			Location:     loc,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return append(items, created), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.locations.AdjustProductCount(ctx, locationKey(created), 1); err != nil {
		s.log.Error("failed to bump location product counter", zap.String("slug", created.Slug), zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, slug string, patch domain.Patch) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrInvalidSlug
	}

	var (
		category     *domain.Category
		availability *domain.Availability
	)
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrInvalidTitle
	}
	if patch.Category != nil {
		c, err := parseCategory(*patch.Category)
		if err != nil {
			return nil, err
		}
		category = &c
	}
	if patch.Availability != nil {
		a, err := parseAvailability(*patch.Availability)
		if err != nil {
			return nil, err
		}
		availability = &a
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	var (
		resolved   *locationdomain.Location
		locationID string
	)
	if patch.LocationID != nil {
		locationID = strings.TrimSpace(*patch.LocationID)
		loc, _, err := s.locations.Resolve(ctx, locationID)
		if err != nil {
			return nil, err
		}
		resolved = loc
	}

	var (
		updated  domain.Product
		previous string
		moved    bool
	)
	err := s.repo.Mutate(ctx, func(items []domain.Product) ([]domain.Product, error) {
		i := indexOf(items, slug)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		item := items[i]
		previous = locationKey(item)

		if patch.Title != nil {
			item.Title = strings.TrimSpace(*patch.Title)
		}
		if category != nil {
			item.Category = *category
		}
		if patch.Price != nil {
			item.Price = strings.TrimSpace(*patch.Price)
		}
		if availability != nil {
			item.Availability = *availability
		}
		if patch.Featured != nil {
			item.Featured = *patch.Featured
		}
		if patch.Image != nil {
			item.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.Content != nil {
			item.Content = *patch.Content
		}
		if patch.Stock != nil {
			item.Stock = *patch.Stock
		}
		if patch.LocationID != nil && locationID != item.LocationID {
			item.LocationID = locationID
			item.Location = resolved
			moved = true
		}

		item.UpdatedAt = s.clock.Now()
		items[i] = item
		updated = item
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	if moved {
		if next := locationKey(updated); next != previous {
			if err := s.moveCounter(ctx, previous, next); err != nil {
				return nil, err
			}
		}
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrInvalidSlug
	}

	var deleted domain.Product
	err := s.repo.Mutate(ctx, func(items []domain.Product) ([]domain.Product, error) {
		i := indexOf(items, slug)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		deleted = items[i]
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.locations.AdjustProductCount(ctx, locationKey(deleted), -1); err != nil {
		s.log.Error("failed to drop location product counter", zap.String("slug", deleted.Slug), zap.Error(err))
		return nil, err
	}
	return &deleted, nil
}

func (s *Service) IncrementOrders(ctx context.Context, slug string) error {
	return s.adjustOrders(ctx, slug, 1)
}

func (s *Service) DecrementOrders(ctx context.Context, slug string) error {
	return s.adjustOrders(ctx, slug, -1)
}

func (s *Service) adjustOrders(ctx context.Context, slug string, delta int) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}

	return s.repo.Mutate(ctx, func(items []domain.Product) ([]domain.Product, error) {
		i := indexOf(items, slug)
		if i < 0 {
			s.log.Debug("order references unknown product", zap.String("slug", slug))
			return items, nil
		}
		items[i].Orders = max(items[i].Orders+delta, 0)
		return items, nil
	})
}

func (s *Service) CountByLocation(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, item := range s.repo.FindAll(ctx) {
		if key := locationKey(item); key != "" {
			counts[key]++
		}
	}
	return counts, nil
}

func (s *Service) moveCounter(ctx context.Context, from, to string) error {
	if err := s.locations.AdjustProductCount(ctx, from, -1); err != nil {
		return err
	}
	return s.locations.AdjustProductCount(ctx, to, 1)
}

// locationKey is the location a product counts towards: the embedded
// snapshot when there is one, otherwise the raw reference.
func locationKey(p domain.Product) string {
	if p.Location != nil && p.Location.ID != "" {
		return p.Location.ID
	}
	return p.LocationID
}

func indexOf(items []domain.Product, slug string) int {
	for i := range items {
		if items[i].Slug == slug {
			return i
		}
	}
	return -1
}

func parseCategory(raw string) (domain.Category, error) {
	value := domain.Category(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return domain.CategoryOther, nil
	}
	if !value.Valid() {
		return "", domain.ErrInvalidCategory
	}
	return value, nil
}

func parseAvailability(raw string) (domain.Availability, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return domain.AvailabilityInStock, nil
	}
	for _, candidate := range []domain.Availability{
		domain.AvailabilityInStock,
		domain.AvailabilityOutOfStock,
		domain.AvailabilityLimitedStock,
	} {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", domain.ErrInvalidAvailability
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Stock":
			return domain.ErrInvalidStock
		}
	}
	return domain.ErrInvalidTitle
}
