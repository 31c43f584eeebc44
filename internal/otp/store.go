// Package otp issues and checks one-time login codes.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

// ErrNoCode is returned when no live code exists for a phone.
var ErrNoCode = errors.New("no pending code")

// Store keeps the most recently issued code per (country code, phone).
type Store interface {
	Save(ctx context.Context, countryCode, phone, code string, ttl time.Duration) error
	Latest(ctx context.Context, countryCode, phone string) (string, error)
	Consume(ctx context.Context, countryCode, phone string) error
	// MarkSent reports false when a code was already sent within interval.
	MarkSent(ctx context.Context, countryCode, phone string, interval time.Duration) (bool, error)
	// ClearSent releases the resend window and drops any undelivered code.
	ClearSent(ctx context.Context, countryCode, phone string) error
}

// DBStore keeps codes in the otp_codes table.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (s *DBStore) Save(ctx context.Context, countryCode, phone, code string, ttl time.Duration) error {
	row := models.OTPCode{
		CountryCode: countryCode,
		Phone:       phone,
		Code:        code,
		ExpiresAt:   s.now().Add(ttl),
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (s *DBStore) Latest(ctx context.Context, countryCode, phone string) (string, error) {
	var row models.OTPCode
	err := s.db.WithContext(ctx).
		Where("country_code = ? AND phone = ?", countryCode, phone).
		Order("created_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoCode
	}
	if err != nil {
		return "", err
	}
	if s.now().After(row.ExpiresAt) {
		return "", ErrNoCode
	}
	return row.Code, nil
}

func (s *DBStore) Consume(ctx context.Context, countryCode, phone string) error {
	return s.db.WithContext(ctx).
		Where("country_code = ? AND phone = ?", countryCode, phone).
		Delete(&models.OTPCode{}).Error
}

// MarkSent is a read-then-decide check; two racing sends may both pass.
// The Redis store is atomic.
func (s *DBStore) MarkSent(ctx context.Context, countryCode, phone string, interval time.Duration) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.OTPCode{}).
		Where("country_code = ? AND phone = ? AND created_at > ?", countryCode, phone, s.now().Add(-interval)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ClearSent removes the pending rows; the resend window is derived from them.
func (s *DBStore) ClearSent(ctx context.Context, countryCode, phone string) error {
	return s.Consume(ctx, countryCode, phone)
}

// PurgeExpired removes codes past their expiry.
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.OTPCode{})
	return res.RowsAffected, res.Error
}

const (
	codeKeyPrefix = "otp:code:"
	sentKeyPrefix = "otp:sent:"
)

// RedisStore keeps codes in Redis so every instance sees the same state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func phoneKey(countryCode, phone string) string {
	return countryCode + ":" + phone
}

func (s *RedisStore) Save(ctx context.Context, countryCode, phone, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKeyPrefix+phoneKey(countryCode, phone), code, ttl).Err()
}

func (s *RedisStore) Latest(ctx context.Context, countryCode, phone string) (string, error) {
	code, err := s.client.Get(ctx, codeKeyPrefix+phoneKey(countryCode, phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCode
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Consume(ctx context.Context, countryCode, phone string) error {
	return s.client.Del(ctx, codeKeyPrefix+phoneKey(countryCode, phone)).Err()
}

func (s *RedisStore) MarkSent(ctx context.Context, countryCode, phone string, interval time.Duration) (bool, error) {
	return s.client.SetNX(ctx, sentKeyPrefix+phoneKey(countryCode, phone), "1", interval).Result()
}

func (s *RedisStore) ClearSent(ctx context.Context, countryCode, phone string) error {
	key := phoneKey(countryCode, phone)
	return s.client.Del(ctx, sentKeyPrefix+key, codeKeyPrefix+key).Err()
}
