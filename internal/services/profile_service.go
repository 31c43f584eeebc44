package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/reconcile"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

type ProfileService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewProfileService(db *gorm.DB, cfg *config.Config) *ProfileService {
	return &ProfileService{db: db, cfg: cfg}
}

// Get returns the identity's profile, creating empty records on first read.
func (s *ProfileService) Get(ctx context.Context, identityID uuid.UUID) (*dto.ProfileResponse, error) {
	var identity models.Identity
	if err := s.db.WithContext(ctx).First(&identity, "id = ?", identityID).Error; err != nil {
		return nil, ErrIdentityNotFound
	}

	var profile *models.ProfileAggregate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, _, err = reconcile.LoadOrCreate(tx, identityID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		Success:          true,
		ProfileCompleted: profile.IsProfileCompleted,
		Data:             reconcile.Snapshot(profile, s.cfg.MediaBaseURL),
	}, nil
}

// Save applies a self-service edit. The identity's own registry row is
// created if missing, and after commit the profile is mirrored onto every
// member row bound to the identity.
func (s *ProfileService) Save(ctx context.Context, identityID uuid.UUID, in *dto.ProfilePayload) (resp *dto.ProfileResponse, err error) {
	if in == nil {
		in = &dto.ProfilePayload{}
	}
	if err := reconcile.ValidatePayload(in); err != nil {
		return nil, err
	}

	ctx, span := reconcile.StartSpan(ctx, "profile.save", attribute.String("identity_id", identityID.String()))
	defer func() { reconcile.EndSpan(span, err) }()

	var (
		profile *models.ProfileAggregate
		after   reconcile.AfterCommit
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()

		var identity models.Identity
		if err := tx.First(&identity, "id = ?", identityID).Error; err != nil {
			return ErrIdentityNotFound
		}

		var (
			created bool
			err     error
		)
		profile, created, err = reconcile.LoadOrCreate(tx, identityID)
		if err != nil {
			return err
		}
		self, err := reconcile.PrimaryMember(tx, identityID)
		if err != nil {
			return err
		}
		if created && self != nil {
			reconcile.ApplyMember(profile, self)
		}
		if err := reconcile.ApplyPayload(profile, in); err != nil {
			return err
		}
		if self == nil {
			if err := createSelfMember(tx, &identity, profile); err != nil {
				return err
			}
		} else if self.FamilyID == nil {
			if role := memberRoleFor(profile.RegistrationRole); role != "" && role != self.Role {
				if err := tx.Model(self).Update("role", role).Error; err != nil {
					return fmt.Errorf("failed to update member role: %w", err)
				}
			}
		}

		relation, err := reconcile.RelationFor(tx, identityID)
		if err != nil {
			return err
		}
		reconcile.Recompute(profile, relation)
		if err := reconcile.Save(tx, profile); err != nil {
			return err
		}

		after.Add("push_profile_to_member", func(ctx context.Context) error {
			_, err := reconcile.PushProfileToMember(ctx, s.db, identityID, reconcile.OriginDirect)
			return err
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	after.Run(ctx)

	return &dto.ProfileResponse{
		Success:          true,
		ProfileCompleted: profile.IsProfileCompleted,
		Data:             reconcile.Snapshot(profile, s.cfg.MediaBaseURL),
	}, nil
}

func createSelfMember(tx *gorm.DB, identity *models.Identity, p *models.ProfileAggregate) error {
	pd := p.Personal
	m := models.Member{
		IdentityID:   &identity.ID,
		CountryCode:  firstNonBlank(pd.CountryCode, identity.CountryCode),
		Name:         pd.FullName,
		Role:         models.MemberRoleMember,
		Status:       models.StatusPending,
		Relation:     models.RelationSelf,
		DateOfBirth:  pd.DOB,
		Email:        pd.Email,
		Address:      pd.Address,
		City:         pd.CurrentCity,
		NativePlace:  pd.NativePlace,
		ProfileImage: pd.ProfileImage,
		Community:    pd.Community,
	}
	if identity.Phone != nil {
		m.Mobile = firstNonBlank(pd.Phone, *identity.Phone)
	} else {
		m.Mobile = pd.Phone
	}
	if strings.TrimSpace(pd.Gender) != "" {
		m.Gender = validate.Gender(pd.Gender)
	}
	if role := memberRoleFor(p.RegistrationRole); role != "" {
		m.Role = role
	}
	if p.Job != nil {
		m.Occupation = p.Job.OccupationType
	}
	if p.Education != nil {
		m.HighestQualification = p.Education.Qualification
	}
	if err := tx.Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func memberRoleFor(registrationRole string) string {
	switch registrationRole {
	case models.RegistrationRoleFamilyHead:
		return models.MemberRoleFamilyHead
	case models.RegistrationRoleMember:
		return models.MemberRoleMember
	}
	return ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
