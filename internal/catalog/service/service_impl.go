package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/catalog/domain"
	"github.com/drivio/drivio/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
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

func New(p Params) domain.CatalogService {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateServiceRequest) (domain.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Service{}, domain.ErrInvalidName
	}

	commissionType, err := normalizeRuleType(req.CommissionType, domain.RuleTypePercent)
	if err != nil {
		return domain.Service{}, err
	}
	cashbackType, err := normalizeRuleType(req.CashbackType, domain.RuleTypePercent)
	if err != nil {
		return domain.Service{}, err
	}
	if req.CommissionValue < 0 || req.CashbackValue < 0 {
		return domain.Service{}, domain.ErrInvalidRuleValue
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	service := domain.Service{
		ID:              s.genID.Generate(),
		Name:            name,
		Category:        category,
		CommissionType:  commissionType,
		CommissionValue: req.CommissionValue,
		CashbackType:    cashbackType,
		CashbackValue:   req.CashbackValue,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &service); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Service{}, domain.ErrNameTaken
		}
		return domain.Service{}, err
	}

	return service, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateServiceRequest) (domain.Service, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrNotFound
	}

	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category != "" {
			item.Category = category
		}
	}
	if req.CommissionType != nil {
		normalized, err := normalizeRuleType(*req.CommissionType, "")
		if err != nil {
			return domain.Service{}, err
		}
		item.CommissionType = normalized
	}
	if req.CommissionValue != nil {
		if *req.CommissionValue < 0 {
			return domain.Service{}, domain.ErrInvalidRuleValue
		}
		item.CommissionValue = *req.CommissionValue
	}
	if req.CashbackType != nil {
		normalized, err := normalizeRuleType(*req.CashbackType, "")
		if err != nil {
			return domain.Service{}, err
		}
		item.CashbackType = normalized
	}
	if req.CashbackValue != nil {
		if *req.CashbackValue < 0 {
			return domain.Service{}, domain.ErrInvalidRuleValue
		}
		item.CashbackValue = *req.CashbackValue
	}

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Service{}, err
	}

	return *item, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetServiceRequest) (domain.Service, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListServiceRequest) ([]domain.Service, error) {
	items, err := s.repo.List(ctx, s.db, strings.TrimSpace(req.Category))
	if err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}
	return services, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	// Historical visit lines keep a denormalized copy of the name, so a
	// catalog delete only has to protect live override rows.
	count, err := s.repo.CountOverrides(ctx, s.db, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrServiceReferenced
	}

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeRuleType(raw domain.RuleType, def domain.RuleType) (domain.RuleType, error) {
	value := domain.RuleType(strings.ToLower(strings.TrimSpace(string(raw))))
	if value == "" && def != "" {
		return def, nil
	}
	switch value {
	case domain.RuleTypePercent, domain.RuleTypeFixed:
		return value, nil
	default:
		return "", domain.ErrInvalidRuleType
	}
}
