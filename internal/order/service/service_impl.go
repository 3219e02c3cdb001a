package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/farmstand/internal/clock"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/pkg/ident"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Repo      domain.Repository
	Locations locationdomain.Service
	Products  productdomain.Service
	Clock     clock.Clock
	Policy    domain.TransitionPolicy `optional:"true"`
	Validate  *validator.Validate     `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	locations locationdomain.Service
	products  productdomain.Service
	clock     clock.Clock
	policy    domain.TransitionPolicy
	validate  *validator.Validate
}

func New(p Params) domain.Service {
	validate := p.Validate
	if validate == nil {
		validate = validator.New()
	}
	policy := p.Policy
	if policy == nil {
		policy = domain.Unconstrained{}
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		log:       p.Log.Named("order.service"),
		repo:      p.Repo,
		locations: p.Locations,
		products:  p.Products,
		clock:     clk,
		policy:    policy,
		validate:  validate,
	}
}

// List returns orders with their location snapshot refreshed from the
// current locations.
func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Order, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !domain.Status(status).Valid() {
		return nil, domain.ErrInvalidStatus
	}
	locationID := strings.TrimSpace(req.LocationID)

	locations, err := s.locations.List(ctx, locationdomain.ListRequest{})
	if err != nil {
		return nil, err
	}

	items := s.repo.FindAll(ctx)
	result := make([]domain.Order, 0, len(items))
	for _, item := range items {
		item.Location = resolveIn(locations, item.LocationID)
		if status != "" && string(item.Status) != status {
			continue
		}
		if locationID != "" && item.LocationID != locationID && (item.Location == nil || item.Location.ID != locationID) {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	items := s.repo.FindAll(ctx)
	i := indexOf(items, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}

	locations, err := s.locations.List(ctx, locationdomain.ListRequest{})
	if err != nil {
		return nil, err
	}
	item := items[i]
	item.Location = resolveIn(locations, item.LocationID)
	return &item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	amount := decimal.Zero
	if req.TotalAmount != nil {
		amount = *req.TotalAmount
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	status := domain.StatusPending
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	locationID := strings.TrimSpace(req.LocationID)
	loc, _, err := s.locations.Resolve(ctx, locationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var created domain.Order
	err = s.repo.Mutate(ctx, func(items []domain.Order) ([]domain.Order, error) {
		id := ident.Unique(ident.OrderID(now), func(candidate string) bool {
			return indexOf(items, candidate) >= 0
		})

		created = domain.Order{
			ID:            id,
			ProductID:     req.ProductID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Quantity:      quantity,
			TotalAmount:   amount,
			Status:        status,
			LocationID:    locationID,
			Location:      loc,
			OrderDate:     now,
			DeliveryDate:  req.DeliveryDate,
			Notes:         strings.TrimSpace(req.Notes),
		}
		return append(items, created), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.products.IncrementOrders(ctx, created.ProductID); err != nil {
		s.log.Error("failed to bump product order counter", zap.String("order_id", created.ID), zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, patch domain.Patch) (*domain.Order, error) {
	id := strings.TrimSpace(patch.ID)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	if patch.ProductID != nil && strings.TrimSpace(*patch.ProductID) == "" {
		return nil, domain.ErrInvalidProduct
	}
	if patch.CustomerName != nil && strings.TrimSpace(*patch.CustomerName) == "" {
		return nil, domain.ErrInvalidCustomer
	}
	if patch.CustomerEmail != nil {
		if email := strings.TrimSpace(*patch.CustomerEmail); email != "" {
			if err := s.validate.Var(email, "email"); err != nil {
				return nil, domain.ErrInvalidEmail
			}
		}
	}
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if patch.TotalAmount != nil && patch.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	var status *domain.Status
	if patch.Status != nil {
		next := domain.Status(strings.ToLower(strings.TrimSpace(*patch.Status)))
		if !next.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		status = &next
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
		updated     domain.Order
		prevProduct string
	)
	err := s.repo.Mutate(ctx, func(items []domain.Order) ([]domain.Order, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		item := items[i]
		prevProduct = item.ProductID

		if status != nil {
			if !s.policy.Allow(item.Status, *status) {
				return nil, domain.ErrInvalidTransition
			}
			item.Status = *status
		}
		if patch.ProductID != nil {
			item.ProductID = strings.TrimSpace(*patch.ProductID)
		}
		if patch.CustomerName != nil {
			item.CustomerName = strings.TrimSpace(*patch.CustomerName)
		}
		if patch.CustomerEmail != nil {
			item.CustomerEmail = strings.TrimSpace(*patch.CustomerEmail)
		}
		if patch.CustomerPhone != nil {
			item.CustomerPhone = strings.TrimSpace(*patch.CustomerPhone)
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		if patch.TotalAmount != nil {
			item.TotalAmount = *patch.TotalAmount
		}
		if patch.DeliveryDate != nil {
			delivery := *patch.DeliveryDate
			item.DeliveryDate = &delivery
		}
		if patch.Notes != nil {
			item.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.LocationID != nil && locationID != item.LocationID {
			item.LocationID = locationID
			item.Location = resolved
		}

		now := s.clock.Now()
		item.UpdatedAt = &now
		items[i] = item
		updated = item
		return items, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.log.Info("order status change rejected", zap.String("order_id", id), zap.Stringp("status", patch.Status))
		}
		return nil, err
	}

	if updated.ProductID != prevProduct {
		if err := s.moveOrder(ctx, prevProduct, updated.ProductID); err != nil {
			s.log.Error("failed to move product order counter", zap.String("order_id", id), zap.Error(err))
			return nil, err
		}
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	var deleted domain.Order
	err := s.repo.Mutate(ctx, func(items []domain.Order) ([]domain.Order, error) {
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

	if err := s.products.DecrementOrders(ctx, deleted.ProductID); err != nil {
		s.log.Error("failed to drop product order counter", zap.String("order_id", deleted.ID), zap.Error(err))
		return nil, err
	}
	return &deleted, nil
}

func (s *Service) moveOrder(ctx context.Context, from, to string) error {
	if err := s.products.DecrementOrders(ctx, from); err != nil {
		return err
	}
	return s.products.IncrementOrders(ctx, to)
}

// resolveIn applies the location fallback rule to an already loaded list.
func resolveIn(locations []locationdomain.Location, id string) *locationdomain.Location {
	if len(locations) == 0 {
		return nil
	}
	for i := range locations {
		if locations[i].ID == id {
			loc := locations[i]
			return &loc
		}
	}
	first := locations[0]
	return &first
}

func indexOf(items []domain.Order, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "ProductID":
			return domain.ErrInvalidProduct
		case "CustomerEmail":
			return domain.ErrInvalidEmail
		}
	}
	return domain.ErrInvalidCustomer
}
