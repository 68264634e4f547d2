package ledger

import (
	"context"
	"testing"

	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
)

type fakeRepository struct {
	refunds   map[uuid.UUID]*Refund
	payouts   map[uuid.UUID]*Payout
	penalties map[uuid.UUID]*Penalty
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		refunds:   make(map[uuid.UUID]*Refund),
		payouts:   make(map[uuid.UUID]*Payout),
		penalties: make(map[uuid.UUID]*Penalty),
	}
}

func (r *fakeRepository) GetRefundByID(ctx context.Context, id uuid.UUID) (*Refund, error) {
	if refund, ok := r.refunds[id]; ok {
		return refund, nil
	}
	return nil, apperr.NotFound("refund not found")
}

func (r *fakeRepository) GetPayoutByID(ctx context.Context, id uuid.UUID) (*Payout, error) {
	if payout, ok := r.payouts[id]; ok {
		return payout, nil
	}
	return nil, apperr.NotFound("payout not found")
}

func (r *fakeRepository) GetPenaltyByID(ctx context.Context, id uuid.UUID) (*Penalty, error) {
	if penalty, ok := r.penalties[id]; ok {
		return penalty, nil
	}
	return nil, apperr.NotFound("penalty not found")
}

func (r *fakeRepository) UpdateRefund(ctx context.Context, refund *Refund) error {
	r.refunds[refund.ID] = refund
	return nil
}

func (r *fakeRepository) UpdatePayout(ctx context.Context, payout *Payout) error {
	r.payouts[payout.ID] = payout
	return nil
}

func (r *fakeRepository) UpdatePenalty(ctx context.Context, penalty *Penalty) error {
	r.penalties[penalty.ID] = penalty
	return nil
}

func (r *fakeRepository) GetRefundsByUser(ctx context.Context, userID uuid.UUID) ([]Refund, error) {
	var out []Refund
	for _, refund := range r.refunds {
		if refund.UserID == userID {
			out = append(out, *refund)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetPenaltiesByUser(ctx context.Context, userID uuid.UUID) ([]Penalty, error) {
	var out []Penalty
	for _, penalty := range r.penalties {
		if penalty.UserID == userID {
			out = append(out, *penalty)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	return nil, nil
}

func (r *fakeRepository) GetCouponsByUser(ctx context.Context, userID uuid.UUID) ([]Coupon, error) {
	return nil, nil
}

func (r *fakeRepository) GetPayoutsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Payout, error) {
	var out []Payout
	for _, payout := range r.payouts {
		if payout.OwnerID == ownerID {
			out = append(out, *payout)
		}
	}
	return out, nil
}

func TestClaimRefund(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	refund := &Refund{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BookingID:    uuid.New(),
		Reason:       RefundReasonRefundable,
		RefundAmount: 300,
		Status:       ClaimStatusPending,
	}
	repo.refunds[refund.ID] = refund

	claimed, err := svc.ClaimRefund(context.Background(), refund.ID, "user@upi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claimed.Status != ClaimStatusInProcess {
		t.Errorf("expected in_process, got %s", claimed.Status)
	}
	if claimed.UPIID != "user@upi" {
		t.Errorf("expected UPI recorded, got %q", claimed.UPIID)
	}
	if claimed.ClaimedAt == nil {
		t.Error("expected claim timestamp set")
	}
}

func TestClaimRefundOnlyOnce(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	refund := &Refund{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: ClaimStatusPending,
	}
	repo.refunds[refund.ID] = refund

	if _, err := svc.ClaimRefund(context.Background(), refund.ID, "user@upi"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	_, err := svc.ClaimRefund(context.Background(), refund.ID, "other@upi")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState on second claim, got %v", err)
	}
	if refund.UPIID != "user@upi" {
		t.Errorf("second claim must not overwrite UPI, got %q", refund.UPIID)
	}
}

func TestClaimRefundNotFound(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.ClaimRefund(context.Background(), uuid.New(), "user@upi")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestClaimPayout(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	payout := &Payout{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		PayoutAmount: 630,
		Status:       ClaimStatusPending,
	}
	repo.payouts[payout.ID] = payout

	claimed, err := svc.ClaimPayout(context.Background(), payout.ID, "owner@upi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed.Status != ClaimStatusInProcess || claimed.UPIID != "owner@upi" {
		t.Errorf("unexpected payout state: %+v", claimed)
	}

	_, err = svc.ClaimPayout(context.Background(), payout.ID, "owner@upi")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState on second claim, got %v", err)
	}
}

func TestMarkPenaltyPaid(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	penalty := &Penalty{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		PenaltyAmount: 250,
		Reason:        PenaltyReasonLateDrop,
		PaymentStatus: PenaltyUnpaid,
	}
	repo.penalties[penalty.ID] = penalty

	paid, err := svc.MarkPenaltyPaid(context.Background(), penalty.ID, "pay_xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.PaymentStatus != PenaltyPaid || paid.GatewayPaymentID != "pay_xyz" {
		t.Errorf("unexpected penalty state: %+v", paid)
	}
	if paid.PenaltyAmount != 250 {
		t.Errorf("penalty amount must be immutable, got %v", paid.PenaltyAmount)
	}

	_, err = svc.MarkPenaltyPaid(context.Background(), penalty.ID, "pay_other")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState for already-paid penalty, got %v", err)
	}
}
