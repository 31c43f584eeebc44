package reconcile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

// LoadOrCreate returns the identity's profile with all three sub-records
// present, creating whatever is missing.
func LoadOrCreate(tx *gorm.DB, identityID uuid.UUID) (*models.ProfileAggregate, bool, error) {
	var p models.ProfileAggregate
	created := false

	err := tx.Preload("Personal").Preload("Education").Preload("Job").
		Where("identity_id = ?", identityID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.ProfileAggregate{IdentityID: identityID}
		if err := tx.Omit("Personal", "Education", "Job", "Identity").Create(&p).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create profile: %w", err)
		}
		created = true
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}

	if p.Personal == nil {
		p.Personal = &models.PersonalDetail{ProfileID: p.ID, Status: models.StatusPending}
		if err := tx.Create(p.Personal).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create personal detail: %w", err)
		}
	}
	if p.Education == nil {
		p.Education = &models.EducationDetail{ProfileID: p.ID}
		if err := tx.Create(p.Education).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create education detail: %w", err)
		}
	}
	if p.Job == nil {
		p.Job = &models.JobDetail{ProfileID: p.ID}
		if err := tx.Create(p.Job).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create job detail: %w", err)
		}
	}

	return &p, created, nil
}

// Save writes the profile row and its sub-records.
func Save(tx *gorm.DB, p *models.ProfileAggregate) error {
	if err := tx.Omit("Personal", "Education", "Job", "Identity").Save(p).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if err := tx.Save(p.Personal).Error; err != nil {
		return fmt.Errorf("failed to save personal detail: %w", err)
	}
	if err := tx.Save(p.Education).Error; err != nil {
		return fmt.Errorf("failed to save education detail: %w", err)
	}
	if err := tx.Save(p.Job).Error; err != nil {
		return fmt.Errorf("failed to save job detail: %w", err)
	}
	return nil
}
