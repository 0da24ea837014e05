package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	branchdomain "github.com/movecrewlabs/movecrew/internal/branch/domain"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	customerdomain "github.com/movecrewlabs/movecrew/internal/customer/domain"
	"github.com/movecrewlabs/movecrew/internal/estimate/domain"
	"github.com/movecrewlabs/movecrew/internal/estimate/pricing"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	TemplateRepo templatedomain.Repository
	CatalogRepo  catalogdomain.Repository
	CustomerRepo customerdomain.Repository
	BranchRepo   branchdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	templateRepo templatedomain.Repository
	catalogRepo  catalogdomain.Repository
	customerRepo customerdomain.Repository
	branchRepo   branchdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("estimate.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		templateRepo: p.TemplateRepo,
		catalogRepo:  p.CatalogRepo,
		customerRepo: p.CustomerRepo,
		branchRepo:   p.BranchRepo,
	}
}

// CreateFromTemplate materializes a new estimate from a template: every
// template line item becomes an estimate-owned copy of its charge, using the
// template's rate/percentage override when present. The estimate is priced
// once before the transaction commits.
func (s *Service) CreateFromTemplate(ctx context.Context, req domain.CreateFromTemplateRequest) (*domain.Estimate, error) {
	customer, err := s.findCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	templateID, err := snowflake.ParseString(strings.TrimSpace(req.TemplateID))
	if err != nil {
		return nil, templatedomain.ErrTemplateNotFound
	}
	template, err := s.templateRepo.FindByID(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, templatedomain.ErrTemplateNotFound
	}

	templateItems, err := s.templateRepo.ListItems(ctx, s.db, template.ID)
	if err != nil {
		return nil, err
	}
	chargeIDs := make([]snowflake.ID, 0, len(templateItems))
	for _, ti := range templateItems {
		chargeIDs = append(chargeIDs, ti.ChargeID)
	}
	charges, err := s.catalogRepo.ListChargesByIDs(ctx, s.db, chargeIDs)
	if err != nil {
		return nil, err
	}
	chargeByID := make(map[snowflake.ID]catalogdomain.ChargeDefinition, len(charges))
	for _, c := range charges {
		chargeByID[c.ID] = c
	}

	now := time.Now().UTC()
	est := s.newEstimate(customer.ID, template.ServiceType, req.Inputs, now)
	est.TemplateID = &template.ID

	var items []*domain.EstimateLineItem
	for idx, ti := range templateItems {
		charge, ok := chargeByID[ti.ChargeID]
		if !ok {
			// Template references a charge that was removed from the
			// catalog; skip it rather than failing the whole estimate.
			continue
		}
		rate := charge.DefaultRate
		if ti.RateOverride != nil {
			rate = ti.RateOverride
		}
		percentage := charge.DefaultPercentage
		if ti.PercentageOverride != nil {
			percentage = ti.PercentageOverride
		}
		chargeID := charge.ID
		items = append(items, &domain.EstimateLineItem{
			ID:                 s.genID.Generate(),
			EstimateID:         est.ID,
			ChargeID:           &chargeID,
			PercentAppliedOnID: charge.PercentAppliedOnID,
			ChargeName:         charge.Name,
			Kind:               charge.Kind,
			Rate:               rate,
			Percentage:         percentage,
			Quantity:           decimal.NewFromInt(1),
			DisplayOrder:       idx,
		})
	}

	branchRate, err := s.branchTaxRate(ctx, s.db, customer)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pricing.Calculate(est, items, branchRate); err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, tx, est); err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repo.InsertItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("estimate created from template",
		zap.String("estimate_id", est.ID.String()),
		zap.String("template_id", template.ID.String()),
		zap.Int("items", len(items)),
	)
	return s.withItems(ctx, est)
}

// CreateBlank creates an empty estimate for ad-hoc charge entry.
func (s *Service) CreateBlank(ctx context.Context, req domain.CreateBlankRequest) (*domain.Estimate, error) {
	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return nil, domain.ErrInvalidRequest
	}
	customer, err := s.findCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	est := s.newEstimate(customer.ID, serviceType, req.Inputs, time.Now().UTC())
	branchRate, err := s.branchTaxRate(ctx, s.db, customer)
	if err != nil {
		return nil, err
	}
	if err := pricing.Calculate(est, nil, branchRate); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, s.db, est); err != nil {
		return nil, err
	}

	s.log.Info("blank estimate created", zap.String("estimate_id", est.ID.String()))
	return est, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, est)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{Status: req.Status}
	if strings.TrimSpace(req.CustomerID) != "" {
		customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return domain.ListResponse{}, customerdomain.ErrCustomerNotFound
		}
		filter.CustomerID = &customerID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item domain.Estimate) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	resp := domain.ListResponse{Estimates: items}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) UpdateInputs(ctx context.Context, id string, req domain.UpdateInputsRequest) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !est.Status.Editable() {
		return nil, domain.ErrEstimateLocked
	}

	if req.WeightLbs != nil {
		est.WeightLbs = req.WeightLbs
	}
	if req.LabourHours != nil {
		est.LabourHours = req.LabourHours
	}
	if req.PickupDateFrom != nil {
		est.PickupDateFrom = req.PickupDateFrom
	}
	if req.PickupDateTo != nil {
		est.PickupDateTo = req.PickupDateTo
	}
	if req.DeliveryDateFrom != nil {
		est.DeliveryDateFrom = req.DeliveryDateFrom
	}
	if req.DeliveryDateTo != nil {
		est.DeliveryDateTo = req.DeliveryDateTo
	}
	if req.DiscountType != nil {
		est.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		est.DiscountValue = *req.DiscountValue
	}
	if req.TaxPercentage != nil {
		// Manual override; lock so recalculation keeps it, zero included.
		est.TaxPercentage = *req.TaxPercentage
		est.TaxRateLocked = true
	}
	if req.Notes != nil {
		est.Notes = strings.TrimSpace(*req.Notes)
	}

	return s.recalculateAndSave(ctx, est)
}

// Calculate reprices the estimate from its current line items and persists
// every item amount and the four aggregates atomically.
func (s *Service) Calculate(ctx context.Context, id string) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recalculateAndSave(ctx, est)
}

func (s *Service) AddLineItem(ctx context.Context, id string, req domain.AddLineItemRequest) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !est.Status.Editable() {
		return nil, domain.ErrEstimateLocked
	}

	item, err := s.buildLineItem(ctx, est, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListItems(ctx, s.db, est.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.DisplayOrder >= item.DisplayOrder {
			item.DisplayOrder = e.DisplayOrder + 1
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertItem(ctx, tx, item); err != nil {
			return err
		}
		return s.recalculate(ctx, tx, est)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, est)
}

func (s *Service) UpdateLineItem(ctx context.Context, id, itemID string, req domain.UpdateLineItemRequest) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !est.Status.Editable() {
		return nil, domain.ErrEstimateLocked
	}
	item, err := s.findItem(ctx, est.ID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidRequest
		}
		item.ChargeName = name
	}
	if req.Rate != nil {
		item.Rate = req.Rate
	}
	if req.Percentage != nil {
		item.Percentage = req.Percentage
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	// A manual edit forces the stored rate/percentage through every later
	// recalculation.
	item.UserModified = true

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}
		return s.recalculate(ctx, tx, est)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, est)
}

func (s *Service) RemoveLineItem(ctx context.Context, id, itemID string) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !est.Status.Editable() {
		return nil, domain.ErrEstimateLocked
	}
	item, err := s.findItem(ctx, est.ID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteItem(ctx, tx, item.ID); err != nil {
			return err
		}
		return s.recalculate(ctx, tx, est)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, est)
}

func (s *Service) MarkSent(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusSent, func(est *domain.Estimate, now time.Time) {
		est.EmailSentAt = &now
		est.PublicToken = uuid.NewString()
	})
}

func (s *Service) CustomerApprove(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusApproved, func(est *domain.Estimate, now time.Time) {
		est.CustomerRespondedAt = &now
	})
}

func (s *Service) CustomerReject(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusRejected, func(est *domain.Estimate, now time.Time) {
		est.CustomerRespondedAt = &now
	})
}

func (s *Service) ConvertToWorkOrder(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusWorkOrder, nil)
}

func (s *Service) MarkInvoiced(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusInvoiced, nil)
}

// transition applies a lifecycle change. Transitions consume the computed
// totals but never recalculate them.
func (s *Service) transition(ctx context.Context, id string, target domain.EstimateStatus, apply func(*domain.Estimate, time.Time)) (*domain.Estimate, error) {
	est, err := s.findEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !est.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	from := est.Status
	est.Status = target
	if apply != nil {
		apply(est, now)
	}
	est.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, est); err != nil {
		return nil, err
	}

	s.log.Info("estimate status changed",
		zap.String("estimate_id", est.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return s.withItems(ctx, est)
}

func (s *Service) newEstimate(customerID snowflake.ID, serviceType string, in domain.ScalarInputs, now time.Time) *domain.Estimate {
	return &domain.Estimate{
		ID:               s.genID.Generate(),
		CustomerID:       customerID,
		ServiceType:      serviceType,
		WeightLbs:        in.WeightLbs,
		LabourHours:      in.LabourHours,
		PickupDateFrom:   in.PickupDateFrom,
		PickupDateTo:     in.PickupDateTo,
		DeliveryDateFrom: in.DeliveryDateFrom,
		DeliveryDateTo:   in.DeliveryDateTo,
		DiscountType:     domain.DiscountNone,
		Status:           domain.StatusDraft,
		PublicToken:      uuid.NewString(),
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *Service) buildLineItem(ctx context.Context, est *domain.Estimate, req domain.AddLineItemRequest) (*domain.EstimateLineItem, error) {
	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil && !req.Quantity.IsZero() {
		quantity = *req.Quantity
	}

	item := &domain.EstimateLineItem{
		ID:         s.genID.Generate(),
		EstimateID: est.ID,
		Quantity:   quantity,
	}

	if req.ChargeID != nil && strings.TrimSpace(*req.ChargeID) != "" {
		chargeID, err := snowflake.ParseString(strings.TrimSpace(*req.ChargeID))
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
		item.ChargeID = &charge.ID
		item.PercentAppliedOnID = charge.PercentAppliedOnID
		item.ChargeName = charge.Name
		item.Kind = charge.Kind
		item.Rate = charge.DefaultRate
		item.Percentage = charge.DefaultPercentage
		if req.Rate != nil {
			item.Rate = req.Rate
			item.UserModified = true
		}
		if req.Percentage != nil {
			item.Percentage = req.Percentage
			item.UserModified = true
		}
		return item, nil
	}

	// Ad hoc charge: name and a valid kind are required.
	name := strings.TrimSpace(req.Name)
	kind := catalogdomain.ChargeKind(strings.TrimSpace(req.Kind))
	if name == "" || !kind.Valid() {
		return nil, domain.ErrInvalidRequest
	}
	item.ChargeName = name
	item.Kind = kind
	item.Rate = req.Rate
	item.Percentage = req.Percentage
	if req.PercentAppliedOn != nil && strings.TrimSpace(*req.PercentAppliedOn) != "" {
		baseID, err := snowflake.ParseString(strings.TrimSpace(*req.PercentAppliedOn))
		if err != nil {
			return nil, domain.ErrInvalidRequest
		}
		item.PercentAppliedOnID = &baseID
	}
	return item, nil
}

func (s *Service) recalculateAndSave(ctx context.Context, est *domain.Estimate) (*domain.Estimate, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.recalculate(ctx, tx, est)
	})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, est)
}

// recalculate reprices the estimate inside the caller's transaction: it
// rereads the current line items, runs the engine, and persists every item
// amount together with the estimate aggregates.
func (s *Service) recalculate(ctx context.Context, tx *gorm.DB, est *domain.Estimate) error {
	items, err := s.repo.ListItems(ctx, tx, est.ID)
	if err != nil {
		return err
	}
	itemPtrs := make([]*domain.EstimateLineItem, len(items))
	for i := range items {
		itemPtrs[i] = &items[i]
	}

	branchRate, err := s.branchTaxRateByCustomerID(ctx, tx, est.CustomerID)
	if err != nil {
		return err
	}
	if err := pricing.Calculate(est, itemPtrs, branchRate); err != nil {
		return err
	}

	for _, item := range itemPtrs {
		if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}
	}
	est.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, tx, est)
}

func (s *Service) branchTaxRateByCustomerID(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (decimal.Decimal, error) {
	customer, err := s.customerRepo.FindByID(ctx, db, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer == nil {
		return decimal.Zero, nil
	}
	return s.branchTaxRate(ctx, db, customer)
}

func (s *Service) branchTaxRate(ctx context.Context, db *gorm.DB, customer *customerdomain.Customer) (decimal.Decimal, error) {
	if customer.BranchID == nil {
		return decimal.Zero, nil
	}
	branch, err := s.branchRepo.FindByID(ctx, db, *customer.BranchID)
	if err != nil {
		return decimal.Zero, err
	}
	if branch == nil {
		return decimal.Zero, nil
	}
	return branch.SalesTaxPercentage, nil
}

func (s *Service) findCustomer(ctx context.Context, id string) (*customerdomain.Customer, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, customerdomain.ErrCustomerNotFound
	}
	customer, err := s.customerRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrCustomerNotFound
	}
	return customer, nil
}

func (s *Service) findEstimate(ctx context.Context, id string) (*domain.Estimate, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrEstimateNotFound
	}
	est, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, domain.ErrEstimateNotFound
	}
	return est, nil
}

func (s *Service) findItem(ctx context.Context, estimateID snowflake.ID, itemID string) (*domain.EstimateLineItem, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil {
		return nil, domain.ErrLineItemNotFound
	}
	item, err := s.repo.FindItemByID(ctx, s.db, estimateID, parsed)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrLineItemNotFound
	}
	return item, nil
}

func (s *Service) withItems(ctx context.Context, est *domain.Estimate) (*domain.Estimate, error) {
	items, err := s.repo.ListItems(ctx, s.db, est.ID)
	if err != nil {
		return nil, err
	}
	est.Items = items
	return est, nil
}
