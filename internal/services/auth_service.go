package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/otp"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/reconcile"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/scope"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	issuer *otp.Issuer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, issuer *otp.Issuer) *AuthService {
	return &AuthService{db: db, cfg: cfg, issuer: issuer}
}

func (s *AuthService) normalizePhone(countryCode, phone string) (string, string, error) {
	countryCode = strings.TrimSpace(countryCode)
	if countryCode == "" {
		countryCode = s.cfg.DefaultCountryCode
	}
	phone = strings.TrimSpace(phone)
	if err := validate.Phone("phone", phone); err != nil {
		return "", "", err
	}
	if err := validate.CountryCode("country_code", countryCode); err != nil {
		return "", "", err
	}
	return countryCode, phone, nil
}

func (s *AuthService) SendOTP(ctx context.Context, req *dto.SendOTPRequest) (*dto.SendOTPResponse, error) {
	cc, phone, err := s.normalizePhone(req.CountryCode, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.issuer.Send(ctx, cc, phone); err != nil {
		return nil, err
	}
	return &dto.SendOTPResponse{
		Success:   true,
		Message:   "OTP sent successfully",
		ExpiresIn: int(s.cfg.OTPTTL.Seconds()),
	}, nil
}

// VerifyOTP logs a phone in and performs the first-login merge: stored
// profile, then any matching registry rows, then the client payload, each
// overriding only the fields it supplies. Everything commits atomically.
func (s *AuthService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest, userAgent string) (resp *dto.VerifyOTPResponse, err error) {
	cc, phone, err := s.normalizePhone(req.CountryCode, req.Phone)
	if err != nil {
		metrics.OTPVerifications.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}
	code := strings.TrimSpace(req.OTP)
	if err := validate.OTP(code); err != nil {
		metrics.OTPVerifications.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}
	if err := reconcile.ValidatePayload(req.Data); err != nil {
		metrics.OTPVerifications.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}
	if err := s.issuer.Check(ctx, cc, phone, code); err != nil {
		metrics.OTPVerifications.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	ctx, span := reconcile.StartSpan(ctx, "auth.verify_otp", attribute.String("country_code", cc))
	defer func() { reconcile.EndSpan(span, err) }()

	var (
		identity  models.Identity
		profile   *models.ProfileAggregate
		firstTime bool
		after     reconcile.AfterCommit
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()

		res := tx.Attrs(models.Identity{Role: models.IdentityRoleMember}).
			FirstOrCreate(&identity, models.Identity{CountryCode: cc, Phone: &phone})
		if res.Error != nil {
			return fmt.Errorf("failed to resolve identity: %w", res.Error)
		}
		firstTime = res.RowsAffected > 0

		if token := strings.TrimSpace(req.FCMToken); token != "" && token != identity.FCMToken {
			if err := tx.Model(&identity).Update("fcm_token", token).Error; err != nil {
				return fmt.Errorf("failed to store fcm token: %w", err)
			}
		}

		var err error
		profile, _, err = reconcile.LoadOrCreate(tx, identity.ID)
		if err != nil {
			return err
		}
		if profile.Personal.CountryCode == "" {
			profile.Personal.CountryCode = cc
		}
		if profile.Personal.Phone == "" {
			profile.Personal.Phone = phone
		}

		source, err := s.claimMembers(tx, identity.ID, cc, phone)
		if err != nil {
			return err
		}
		if source != nil {
			reconcile.ApplyMember(profile, source)
		}
		if err := reconcile.ApplyPayload(profile, req.Data); err != nil {
			return err
		}

		relation, err := reconcile.RelationFor(tx, identity.ID)
		if err != nil {
			return err
		}
		reconcile.Recompute(profile, relation)
		if err := reconcile.Save(tx, profile); err != nil {
			return err
		}

		identityID := identity.ID
		after.Add("push_profile_to_member", func(ctx context.Context) error {
			_, err := reconcile.PushProfileToMember(ctx, s.db, identityID, reconcile.OriginDirect)
			return err
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.OTPVerifications.WithLabelValues(metrics.ResultConflict).Inc()
		} else {
			metrics.OTPVerifications.WithLabelValues(metrics.ResultError).Inc()
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneClaimed
		}
		return nil, err
	}

	after.Run(ctx)
	s.issuer.Consume(ctx, cc, phone)

	access, err := s.generateAccessToken(&identity)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(&identity, userAgent)
	if err != nil {
		return nil, err
	}

	metrics.OTPVerifications.WithLabelValues(metrics.ResultOK).Inc()
	return &dto.VerifyOTPResponse{
		Success:          true,
		Message:          "Login successful",
		Token:            access,
		RefreshToken:     refresh,
		UserID:           identity.ID,
		FirstTime:        firstTime,
		ProfileCompleted: profile.IsProfileCompleted,
		Data:             reconcile.Snapshot(profile, s.cfg.MediaBaseURL),
	}, nil
}

// claimMembers binds every unclaimed registry row carrying this number to
// the identity and returns the oldest one as the merge source. Rows that
// only inherit a head's number are not candidates.
func (s *AuthService) claimMembers(tx *gorm.DB, identityID uuid.UUID, cc, phone string) (*models.Member, error) {
	var rows []models.Member
	if err := tx.Scopes(scope.ForPhone(cc, phone), scope.OwnNumber()).
		Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var unbound []uint
	for _, m := range rows {
		if m.IdentityID != nil && *m.IdentityID != identityID {
			return nil, ErrPhoneClaimed
		}
		if m.IdentityID == nil {
			unbound = append(unbound, m.ID)
		}
	}
	if len(unbound) > 0 {
		if err := tx.Model(&models.Member{}).Where("id IN ?", unbound).
			Update("identity_id", identityID).Error; err != nil {
			return nil, fmt.Errorf("failed to bind members: %w", err)
		}
	}
	return &rows[0], nil
}

func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, userAgent string) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Invalid("email and password are required")
	}

	var identity models.Identity
	if err := s.db.WithContext(ctx).Where("email = ? AND role = ?", email, models.IdentityRoleAdmin).
		First(&identity).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(&identity, userAgent)
}

// ProvisionAdmin creates an admin identity, or resets its password if the
// email already exists.
func (s *AuthService) ProvisionAdmin(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, apperr.Invalid("email required and password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var identity models.Identity
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		identity = models.Identity{Email: &email, PasswordHash: string(hash), Role: models.IdentityRoleAdmin}
		if err := s.db.WithContext(ctx).Create(&identity).Error; err != nil {
			return nil, fmt.Errorf("failed to create admin: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if err := s.db.WithContext(ctx).Model(&identity).Updates(map[string]interface{}{
			"password_hash": string(hash),
			"role":          models.IdentityRoleAdmin,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update admin: %w", err)
		}
	}
	return &identity, nil
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest, userAgent string) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	db.Model(&stored).Update("revoked", true)
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var identity models.Identity
	if err := db.First(&identity, "id = ?", stored.IdentityID).Error; err != nil {
		return nil, ErrIdentityNotFound
	}
	return s.generateTokenPair(&identity, userAgent)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
}

func (s *AuthService) generateTokenPair(identity *models.Identity, userAgent string) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(identity, userAgent)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity: dto.IdentityResponse{
			ID:          identity.ID,
			Role:        identity.Role,
			CountryCode: identity.CountryCode,
		},
	}
	if identity.Phone != nil {
		resp.Identity.Phone = *identity.Phone
	}
	if identity.Email != nil {
		resp.Identity.Email = *identity.Email
	}
	return resp, nil
}

// AccessTokenType marks JWTs accepted by the API middleware.
const AccessTokenType = "access"

func (s *AuthService) generateAccessToken(identity *models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity.ID.String(),
		"typ":  AccessTokenType,
		"role": identity.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if identity.Phone != nil {
		claims["country_code"] = identity.CountryCode
		claims["phone"] = *identity.Phone
	}
	if identity.Email != nil {
		claims["email"] = *identity.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(identity *models.Identity, userAgent string) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		IdentityID: identity.ID,
		TokenHash:  hashToken(rawToken),
		Device:     DeviceLabel(userAgent),
		ExpiresAt:  time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

// DeviceLabel renders a user agent as "Browser on OS".
func DeviceLabel(userAgent string) string {
	if userAgent == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser == "" && os == "":
		return "Unknown device"
	case os == "":
		return browser
	case browser == "":
		return os
	}
	return browser + " on " + os
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
