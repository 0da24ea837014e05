package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.ChargeCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := time.Now().UTC()
	category := &domain.ChargeCategory{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertCategory(ctx, s.db, category); err != nil {
		return nil, err
	}

	s.log.Info("charge category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.UpdateCategoryRequest) (*domain.ChargeCategory, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidRequest
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeactivateCategory soft-deactivates a category. Categories referenced by
// charge definitions are never deleted.
func (s *Service) DeactivateCategory(ctx context.Context, id string) (*domain.ChargeCategory, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Active = false
	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.ChargeCategory, error) {
	return s.repo.ListCategories(ctx, s.db)
}

func (s *Service) CreateCharge(ctx context.Context, req domain.CreateChargeRequest) (*domain.ChargeDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if !req.Kind.Valid() {
		return nil, domain.ErrInvalidChargeKind
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}

	baseID, err := s.resolvePercentBase(ctx, req.Kind, req.PercentAppliedOn)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	charge := &domain.ChargeDefinition{
		ID:                 s.genID.Generate(),
		CategoryID:         category.ID,
		Name:               name,
		Kind:               req.Kind,
		DefaultRate:        req.DefaultRate,
		DefaultPercentage:  req.DefaultPercentage,
		PercentAppliedOnID: baseID,
		ServiceTypes:       datatypes.NewJSONSlice(req.ServiceTypes),
		Required:           req.Required,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.InsertCharge(ctx, s.db, charge); err != nil {
		return nil, err
	}

	s.log.Info("charge definition created",
		zap.String("charge_id", charge.ID.String()),
		zap.String("kind", string(charge.Kind)),
		zap.String("name", charge.Name),
	)
	return charge, nil
}

func (s *Service) UpdateCharge(ctx context.Context, id string, req domain.UpdateChargeRequest) (*domain.ChargeDefinition, error) {
	charge, err := s.findCharge(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidRequest
		}
		charge.Name = name
	}
	if req.DefaultRate != nil {
		charge.DefaultRate = req.DefaultRate
	}
	if req.DefaultPercentage != nil {
		charge.DefaultPercentage = req.DefaultPercentage
	}
	if req.PercentAppliedOn != nil {
		baseID, err := s.resolvePercentBase(ctx, charge.Kind, req.PercentAppliedOn)
		if err != nil {
			return nil, err
		}
		charge.PercentAppliedOnID = baseID
	}
	if req.ServiceTypes != nil {
		charge.ServiceTypes = datatypes.NewJSONSlice(req.ServiceTypes)
	}
	if req.Required != nil {
		charge.Required = *req.Required
	}
	if req.Active != nil {
		charge.Active = *req.Active
	}
	charge.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCharge(ctx, s.db, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

// DeactivateCharge disables a charge for future estimates. Estimates that
// already materialized a copy of it keep their line items unchanged.
func (s *Service) DeactivateCharge(ctx context.Context, id string) (*domain.ChargeDefinition, error) {
	charge, err := s.findCharge(ctx, id)
	if err != nil {
		return nil, err
	}
	charge.Active = false
	charge.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCharge(ctx, s.db, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (s *Service) GetCharge(ctx context.Context, id string) (*domain.ChargeDefinition, error) {
	return s.findCharge(ctx, id)
}

func (s *Service) ListCharges(ctx context.Context, opts domain.ListChargesOptions) ([]domain.ChargeDefinition, error) {
	return s.repo.ListCharges(ctx, s.db, opts)
}

func (s *Service) findCategory(ctx context.Context, id string) (*domain.ChargeCategory, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (s *Service) findCharge(ctx context.Context, id string) (*domain.ChargeDefinition, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrChargeNotFound
	}
	charge, err := s.repo.FindChargeByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, domain.ErrChargeNotFound
	}
	return charge, nil
}

// resolvePercentBase validates a percent_applied_on reference. Only
// percentage-kind charges may carry one, and it must point at an existing
// definition. An empty reference is allowed: the charge then prices to zero
// until a base is configured.
func (s *Service) resolvePercentBase(ctx context.Context, kind domain.ChargeKind, ref *string) (*snowflake.ID, error) {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return nil, nil
	}
	if kind != domain.ChargeKindPercentage {
		return nil, domain.ErrInvalidPercentBase
	}
	baseID, err := snowflake.ParseString(strings.TrimSpace(*ref))
	if err != nil {
		return nil, domain.ErrInvalidPercentBase
	}
	base, err := s.repo.FindChargeByID(ctx, s.db, baseID)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, domain.ErrInvalidPercentBase
	}
	return &base.ID, nil
}
