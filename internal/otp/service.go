package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"carzy/internal/notifications"
	"carzy/internal/shared/apperr"
	"carzy/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service interface defines the contract for the login OTP channel
type Service interface {
	Issue(ctx context.Context, mobileNumber string) (*IssueResult, error)
	Verify(ctx context.Context, otpID uuid.UUID, code string) error
}

// IssueResult identifies the issued code for the follow-up verify call
type IssueResult struct {
	OTPID     uuid.UUID `json:"otp_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type service struct {
	repo      Repository
	producer  notifications.Producer
	expiresIn time.Duration
}

// NewService creates a new OTP service instance
func NewService(repo Repository, producer notifications.Producer, expiresIn time.Duration) Service {
	return &service{
		repo:      repo,
		producer:  producer,
		expiresIn: expiresIn,
	}
}

// Issue generates a 4-digit code for the mobile number, stores its hash and
// queues the SMS. The plaintext code leaves the process only via SMS.
func (s *service) Issue(ctx context.Context, mobileNumber string) (*IssueResult, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash otp: %w", err)
	}

	entry := &Code{
		MobileNumber: mobileNumber,
		CodeHash:     string(hash),
		ExpiresAt:    time.Now().UTC().Add(s.expiresIn),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	sms := notifications.NewSMSMessage(mobileNumber, fmt.Sprintf("Your CarZy OTP is %s", code))
	if err := s.producer.PublishSMS(ctx, sms); err != nil {
		// The code is stored and verifiable; delivery is retried out of band.
		logger.GetDefault().ErrorWithContext(ctx, "Failed to queue OTP SMS", err, map[string]interface{}{
			"otp_id": entry.ID.String(),
		})
	}

	return &IssueResult{OTPID: entry.ID, ExpiresAt: entry.ExpiresAt}, nil
}

// Verify consumes the code: a correct code marks the entry used; expired or
// already-used entries are rejected regardless of the submitted value.
func (s *service) Verify(ctx context.Context, otpID uuid.UUID, code string) error {
	entry, err := s.repo.GetByID(ctx, otpID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if entry.IsExpired(now) {
		return apperr.InvalidState("otp has expired")
	}
	if entry.IsUsed() {
		return apperr.InvalidState("otp has already been used")
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(code)) != nil {
		return apperr.InvalidInput("invalid otp")
	}

	entry.VerifiedAt = &now
	if err := s.repo.Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}
	return nil
}

// generateCode returns a 4-digit numeric code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
