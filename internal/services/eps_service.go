// internal/services/eps_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

var (
	ErrEPSNotFound = errors.New("eps not found")
	ErrEPSExists   = errors.New("eps already exists")
)

// EPSService manages the health-provider registry and customer affiliations.
// An affiliation is what earns a customer the provider's percentage discount
// at checkout.
type EPSService struct {
	db *gorm.DB
}

type CreateEPSRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
}

type UpdateEPSRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Discount *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
}

type AssignEPSRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	EPSID  uuid.UUID `json:"eps_id" validate:"required"`
}

func NewEPSService(db *gorm.DB) *EPSService {
	return &EPSService{db: db}
}

func (s *EPSService) CreateEPS(req *CreateEPSRequest) (*models.EPS, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.EPS{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrEPSExists
	}

	eps := &models.EPS{
		Name:     req.Name,
		Discount: req.Discount,
	}
	if err := s.db.Create(eps).Error; err != nil {
		return nil, fmt.Errorf("failed to create eps: %w", err)
	}

	return eps, nil
}

func (s *EPSService) GetEPS(epsID uuid.UUID) (*models.EPS, error) {
	var eps models.EPS
	if err := s.db.First(&eps, "id = ?", epsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEPSNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &eps, nil
}

func (s *EPSService) ListEPS(params utils.PaginationParams) ([]models.EPS, int64, error) {
	query := s.db.Model(&models.EPS{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count eps: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "discount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var providers []models.EPS
	if err := query.Find(&providers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch eps: %w", err)
	}

	return providers, total, nil
}

func (s *EPSService) UpdateEPS(epsID uuid.UUID, req *UpdateEPSRequest) (*models.EPS, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var eps models.EPS
	if err := s.db.First(&eps, "id = ?", epsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEPSNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}

	if len(updates) > 0 {
		if err := s.db.Model(&eps).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update eps: %w", err)
		}
	}

	return &eps, nil
}

// DeleteEPS removes a provider. Affiliated users are detached first so their
// accounts survive without a discount.
func (s *EPSService) DeleteEPS(epsID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("eps_id = ?", epsID).
			Update("eps_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach affiliates: %w", err)
		}

		res := tx.Delete(&models.EPS{}, "id = ?", epsID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete eps: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrEPSNotFound
		}
		return nil
	})
}

// AssignEPS affiliates a user with a provider. Both sides must exist.
func (s *EPSService) AssignEPS(req *AssignEPSRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var eps models.EPS
	if err := s.db.First(&eps, "id = ?", req.EPSID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEPSNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("eps_id", req.EPSID).Error; err != nil {
		return nil, fmt.Errorf("failed to assign eps: %w", err)
	}

	user.EPSID = &eps.ID
	user.EPS = &eps

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"eps_id":  eps.ID,
		"eps":     eps.Name,
	}).Info("EPS assigned to user")

	return &user, nil
}
