package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
)

var (
	ErrTooSoon    = apperr.New(apperr.ErrRateLimit, "Please wait a minute before requesting another OTP.")
	ErrInvalidOTP = apperr.New(apperr.ErrAuth, "Invalid OTP")
)

// Sender delivers a code to a phone.
type Sender interface {
	Send(ctx context.Context, countryCode, phone, code string) error
}

// LogSender writes codes to the log instead of sending an SMS.
type LogSender struct {
	Reveal bool
}

func (s LogSender) Send(ctx context.Context, countryCode, phone, code string) error {
	if s.Reveal {
		slog.Info("otp issued", "country_code", countryCode, "phone", phone, "code", code)
		return nil
	}
	slog.Info("otp issued", "country_code", countryCode, "phone", phone)
	return nil
}

type Issuer struct {
	store  Store
	sender Sender
	cfg    *config.Config
}

func NewIssuer(store Store, sender Sender, cfg *config.Config) *Issuer {
	return &Issuer{store: store, sender: sender, cfg: cfg}
}

// Send issues a fresh code unless one went out within the resend interval.
// A failed save or delivery releases the window again.
func (i *Issuer) Send(ctx context.Context, countryCode, phone string) (err error) {
	ok, err := i.store.MarkSent(ctx, countryCode, phone, i.cfg.OTPResendInterval)
	if err != nil {
		return fmt.Errorf("failed to check resend window: %w", err)
	}
	if !ok {
		return ErrTooSoon
	}
	defer func() {
		if err == nil {
			return
		}
		if cerr := i.store.ClearSent(context.WithoutCancel(ctx), countryCode, phone); cerr != nil {
			slog.Warn("failed to release otp resend window", "country_code", countryCode, "phone", phone, "error", cerr)
		}
	}()

	code, err := GenerateCode(6)
	if err != nil {
		return err
	}
	if err := i.store.Save(ctx, countryCode, phone, code, i.cfg.OTPTTL); err != nil {
		return err
	}
	if err := i.sender.Send(ctx, countryCode, phone, code); err != nil {
		return fmt.Errorf("failed to deliver otp: %w", err)
	}
	metrics.OTPSent.Inc()
	return nil
}

// Check compares code with the last one issued for the phone. The
// configured bypass code is accepted outside production.
func (i *Issuer) Check(ctx context.Context, countryCode, phone, code string) error {
	if i.cfg.OTPBypassAllowed(code) {
		return nil
	}
	latest, err := i.store.Latest(ctx, countryCode, phone)
	if errors.Is(err, ErrNoCode) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("failed to load otp: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(latest), []byte(code)) != 1 {
		return ErrInvalidOTP
	}
	return nil
}

// Consume invalidates the pending code after a successful login.
func (i *Issuer) Consume(ctx context.Context, countryCode, phone string) {
	if err := i.store.Consume(ctx, countryCode, phone); err != nil {
		slog.Warn("failed to consume otp", "country_code", countryCode, "phone", phone, "error", err)
	}
}

// GenerateCode returns n random decimal digits.
func GenerateCode(n int) (string, error) {
	max := big.NewInt(10)
	buf := make([]byte, n)
	for k := range buf {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		buf[k] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
