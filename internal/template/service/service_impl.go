package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"github.com/movecrewlabs/movecrew/internal/template/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("template.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTemplateRequest) (*domain.EstimateTemplate, error) {
	name := strings.TrimSpace(req.Name)
	serviceType := strings.TrimSpace(req.ServiceType)
	if name == "" || serviceType == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := time.Now().UTC()
	template := &domain.EstimateTemplate{
		ID:          s.genID.Generate(),
		Name:        name,
		Code:        slug.Make(serviceType + " " + name),
		ServiceType: serviceType,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, template); err != nil {
		return nil, err
	}

	s.log.Info("estimate template created",
		zap.String("template_id", template.ID.String()),
		zap.String("code", template.Code),
	)
	return template, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateTemplateRequest) (*domain.EstimateTemplate, error) {
	template, err := s.findTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidRequest
		}
		template.Name = name
	}
	if req.Description != nil {
		template.Description = strings.TrimSpace(*req.Description)
	}
	if req.Active != nil {
		template.Active = *req.Active
	}
	template.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, template); err != nil {
		return nil, err
	}
	return s.withItems(ctx, template)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.EstimateTemplate, error) {
	template, err := s.findTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, template)
}

func (s *Service) List(ctx context.Context, opts domain.ListOptions) ([]domain.EstimateTemplate, error) {
	return s.repo.List(ctx, s.db, opts)
}

func (s *Service) AddItem(ctx context.Context, templateID string, req domain.AddItemRequest) (*domain.EstimateTemplate, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	chargeID, err := snowflake.ParseString(strings.TrimSpace(req.ChargeID))
	if err != nil {
		return nil, catalogdomain.ErrChargeNotFound
	}
	charge, err := s.catalogRepo.FindChargeByID(ctx, s.db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, catalogdomain.ErrChargeNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, template.ID)
	if err != nil {
		return nil, err
	}
	nextOrder := 0
	for _, existing := range items {
		if existing.ChargeID == charge.ID {
			return nil, domain.ErrDuplicateCharge
		}
		if existing.DisplayOrder >= nextOrder {
			nextOrder = existing.DisplayOrder + 1
		}
	}

	editable := true
	if req.Editable != nil {
		editable = *req.Editable
	}
	item := &domain.TemplateLineItem{
		ID:                 s.genID.Generate(),
		TemplateID:         template.ID,
		ChargeID:           charge.ID,
		RateOverride:       req.RateOverride,
		PercentageOverride: req.PercentageOverride,
		Editable:           editable,
		DisplayOrder:       nextOrder,
	}
	if err := s.repo.InsertItem(ctx, s.db, item); err != nil {
		return nil, err
	}
	return s.withItems(ctx, template)
}

func (s *Service) UpdateItem(ctx context.Context, templateID, itemID string, req domain.UpdateItemRequest) (*domain.EstimateTemplate, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	item, err := s.findItem(ctx, template.ID, itemID)
	if err != nil {
		return nil, err
	}

	if req.RateOverride != nil {
		item.RateOverride = req.RateOverride
	}
	if req.PercentageOverride != nil {
		item.PercentageOverride = req.PercentageOverride
	}
	if req.Editable != nil {
		item.Editable = *req.Editable
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}

	if err := s.repo.UpdateItem(ctx, s.db, item); err != nil {
		return nil, err
	}
	return s.withItems(ctx, template)
}

func (s *Service) RemoveItem(ctx context.Context, templateID, itemID string) (*domain.EstimateTemplate, error) {
	template, err := s.findTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	item, err := s.findItem(ctx, template.ID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, s.db, item.ID); err != nil {
		return nil, err
	}
	return s.withItems(ctx, template)
}

func (s *Service) findTemplate(ctx context.Context, id string) (*domain.EstimateTemplate, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrTemplateNotFound
	}
	template, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, domain.ErrTemplateNotFound
	}
	return template, nil
}

func (s *Service) findItem(ctx context.Context, templateID snowflake.ID, itemID string) (*domain.TemplateLineItem, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil {
		return nil, domain.ErrTemplateItemNotFound
	}
	item, err := s.repo.FindItemByID(ctx, s.db, templateID, parsed)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrTemplateItemNotFound
	}
	return item, nil
}

func (s *Service) withItems(ctx context.Context, template *domain.EstimateTemplate) (*domain.EstimateTemplate, error) {
	items, err := s.repo.ListItems(ctx, s.db, template.ID)
	if err != nil {
		return nil, err
	}
	template.Items = items
	return template, nil
}
