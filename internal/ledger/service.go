package ledger

import (
	"context"
	"fmt"
	"time"

	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
)

// Service interface defines the contract for ledger claim workflows.
// Ledger records are never edited to undo a computation; the only mutations
// allowed here are the claim-state flips.
type Service interface {
	ClaimRefund(ctx context.Context, refundID uuid.UUID, upiID string) (*Refund, error)
	ClaimPayout(ctx context.Context, payoutID uuid.UUID, upiID string) (*Payout, error)
	MarkPenaltyPaid(ctx context.Context, penaltyID uuid.UUID, gatewayPaymentID string) (*Penalty, error)

	GetUserRefunds(ctx context.Context, userID uuid.UUID) ([]Refund, error)
	GetUserPenalties(ctx context.Context, userID uuid.UUID) ([]Penalty, error)
	GetUserPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	GetUserCoupons(ctx context.Context, userID uuid.UUID) ([]Coupon, error)
	GetOwnerPayouts(ctx context.Context, ownerID uuid.UUID) ([]Payout, error)
}

type service struct {
	repo Repository
}

// NewService creates a new ledger service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ClaimRefund moves a pending refund to in_process and records the UPI
// destination. A refund already in_process or claimed cannot be re-claimed.
func (s *service) ClaimRefund(ctx context.Context, refundID uuid.UUID, upiID string) (*Refund, error) {
	refund, err := s.repo.GetRefundByID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	if !refund.IsClaimable() {
		return nil, apperr.InvalidState("refund already %s", refund.Status)
	}

	now := time.Now().UTC()
	refund.Status = ClaimStatusInProcess
	refund.UPIID = upiID
	refund.ClaimedAt = &now

	if err := s.repo.UpdateRefund(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to update refund: %w", err)
	}
	return refund, nil
}

// ClaimPayout moves a pending payout to in_process and records the UPI
// destination.
func (s *service) ClaimPayout(ctx context.Context, payoutID uuid.UUID, upiID string) (*Payout, error) {
	payout, err := s.repo.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}

	if !payout.IsClaimable() {
		return nil, apperr.InvalidState("payout already %s", payout.Status)
	}

	now := time.Now().UTC()
	payout.Status = ClaimStatusInProcess
	payout.UPIID = upiID
	payout.ClaimedAt = &now
	payout.UpdatedAt = now

	if err := s.repo.UpdatePayout(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to update payout: %w", err)
	}
	return payout, nil
}

// MarkPenaltyPaid flips a penalty from unpaid to paid with the gateway
// payment reference. The amount itself is immutable once created.
func (s *service) MarkPenaltyPaid(ctx context.Context, penaltyID uuid.UUID, gatewayPaymentID string) (*Penalty, error) {
	penalty, err := s.repo.GetPenaltyByID(ctx, penaltyID)
	if err != nil {
		return nil, err
	}

	if penalty.IsPaid() {
		return nil, apperr.InvalidState("penalty is already marked as paid")
	}

	penalty.PaymentStatus = PenaltyPaid
	penalty.GatewayPaymentID = gatewayPaymentID

	if err := s.repo.UpdatePenalty(ctx, penalty); err != nil {
		return nil, fmt.Errorf("failed to update penalty: %w", err)
	}
	return penalty, nil
}

func (s *service) GetUserRefunds(ctx context.Context, userID uuid.UUID) ([]Refund, error) {
	return s.repo.GetRefundsByUser(ctx, userID)
}

func (s *service) GetUserPenalties(ctx context.Context, userID uuid.UUID) ([]Penalty, error) {
	return s.repo.GetPenaltiesByUser(ctx, userID)
}

func (s *service) GetUserPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	return s.repo.GetPaymentsByUser(ctx, userID)
}

func (s *service) GetUserCoupons(ctx context.Context, userID uuid.UUID) ([]Coupon, error) {
	return s.repo.GetCouponsByUser(ctx, userID)
}

func (s *service) GetOwnerPayouts(ctx context.Context, ownerID uuid.UUID) ([]Payout, error) {
	return s.repo.GetPayoutsByOwner(ctx, ownerID)
}
