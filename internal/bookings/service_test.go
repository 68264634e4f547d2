package bookings

import (
	"context"
	"testing"
	"time"

	"carzy/internal/cars"
	"carzy/internal/ledger"
	"carzy/internal/notifications"
	"carzy/internal/payments"
	"carzy/internal/shared/apperr"
	"carzy/internal/shared/config"
	"carzy/pkg/locks"
	"carzy/pkg/logger"

	"github.com/google/uuid"
)

// fakeTxOps records every ledger write a transaction performs.
type fakeTxOps struct {
	repo *fakeRepo

	coupons   map[uuid.UUID]*ledger.Coupon
	payments  []*ledger.Payment
	linked    map[uuid.UUID]uuid.UUID // payment ID -> booking ID
	refunds   []*ledger.Refund
	penalties []*ledger.Penalty
	payouts   []*ledger.Payout
	issued    []*ledger.Coupon
	windows   []*cars.Availability
	removals  int
}

func (t *fakeTxOps) ConsumeCoupon(ctx context.Context, couponID, userID uuid.UUID) (*ledger.Coupon, error) {
	coupon, ok := t.coupons[couponID]
	if !ok || coupon.UserID != userID {
		return nil, apperr.NotFound("coupon not found")
	}
	if coupon.Used {
		return nil, apperr.InvalidState("coupon already used")
	}
	coupon.Used = true
	return coupon, nil
}

func (t *fakeTxOps) CreatePayment(ctx context.Context, payment *ledger.Payment) error {
	t.payments = append(t.payments, payment)
	return nil
}

func (t *fakeTxOps) InsertBooking(ctx context.Context, booking *Booking) error {
	t.repo.bookings[booking.ID] = booking
	return nil
}

func (t *fakeTxOps) LinkPaymentBooking(ctx context.Context, paymentID, bookingID uuid.UUID) error {
	t.linked[paymentID] = bookingID
	return nil
}

func (t *fakeTxOps) CreateRefund(ctx context.Context, refund *ledger.Refund) error {
	t.refunds = append(t.refunds, refund)
	return nil
}

func (t *fakeTxOps) CreatePenalty(ctx context.Context, penalty *ledger.Penalty) error {
	t.penalties = append(t.penalties, penalty)
	return nil
}

func (t *fakeTxOps) CreatePayout(ctx context.Context, payout *ledger.Payout) error {
	t.payouts = append(t.payouts, payout)
	return nil
}

func (t *fakeTxOps) IssueCoupon(ctx context.Context, coupon *ledger.Coupon) error {
	t.issued = append(t.issued, coupon)
	return nil
}

func (t *fakeTxOps) AddAvailability(ctx context.Context, window *cars.Availability) error {
	t.windows = append(t.windows, window)
	return nil
}

func (t *fakeTxOps) RemoveAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) error {
	t.removals++
	return nil
}

// fakeRepo keeps bookings in memory and runs transaction callbacks against
// the shared fakeTxOps recorder.
type fakeRepo struct {
	bookings map[uuid.UUID]*Booking
	tx       *fakeTxOps
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
	r.tx = &fakeTxOps{
		repo:    r,
		coupons: make(map[uuid.UUID]*ledger.Coupon),
		linked:  make(map[uuid.UUID]uuid.UUID),
	}
	return r
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (r *fakeRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok || b.CarOwnerID != ownerID {
		return nil, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.CarOwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, fn func(tx TxOps) error) error {
	return fn(r.tx)
}

func (r *fakeRepo) UpdateBooking(ctx context.Context, id uuid.UUID, fn func(tx TxOps, booking *Booking) error) error {
	b, ok := r.bookings[id]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	// Work on a copy so a failed callback leaves the stored row untouched,
	// mirroring transaction rollback.
	candidate := *b
	if err := fn(r.tx, &candidate); err != nil {
		return err
	}
	*b = candidate
	return nil
}

// fakeCarRepo serves a single car.
type fakeCarRepo struct {
	car *cars.Car
}

func (r *fakeCarRepo) GetByID(ctx context.Context, id uuid.UUID) (*cars.Car, error) {
	if r.car == nil || r.car.ID != id {
		return nil, apperr.NotFound("car not found")
	}
	return r.car, nil
}

func (r *fakeCarRepo) GetAvailability(ctx context.Context, carID uuid.UUID) ([]cars.Availability, error) {
	return nil, nil
}

func (r *fakeCarRepo) HasOverlap(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	return false, nil
}

// fakeGateway returns a canned payment status or error.
type fakeGateway struct {
	status *payments.PaymentStatus
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req payments.OrderRequest) (*payments.Order, error) {
	return &payments.Order{ID: "order_test"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return true
}

func (g *fakeGateway) FetchPayment(ctx context.Context, paymentID string) (*payments.PaymentStatus, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.status, nil
}

// recordingProducer captures published events.
type recordingProducer struct {
	events []*notifications.BookingEvent
}

func (p *recordingProducer) PublishBookingEvent(ctx context.Context, event *notifications.BookingEvent) error {
	p.events = append(p.events, event)
	return nil
}
func (p *recordingProducer) PublishSMS(ctx context.Context, msg *notifications.SMSMessage) error {
	return nil
}
func (p *recordingProducer) HealthCheck(ctx context.Context) error { return nil }
func (p *recordingProducer) Close() error                          { return nil }

// heldLocker always reports the lock as taken.
type heldLocker struct{}

func (heldLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return nil, locks.ErrLockHeld
}

type testEnv struct {
	svc      *service
	repo     *fakeRepo
	cars     *fakeCarRepo
	gateway  *fakeGateway
	producer *recordingProducer
	car      *cars.Car
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	car := &cars.Car{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		PricePerHour: 100,
	}
	env := &testEnv{
		repo:     newFakeRepo(),
		cars:     &fakeCarRepo{car: car},
		gateway:  &fakeGateway{status: &payments.PaymentStatus{ID: "pay_1", Status: payments.StatusCaptured}},
		producer: &recordingProducer{},
		car:      car,
	}

	cfg := &config.Config{
		Redis:   config.RedisConfig{BookingLockTTL: 30 * time.Second},
		Booking: config.BookingConfig{GracePeriod: time.Hour, PlatformCommission: 0.10},
	}
	env.svc = NewService(env.repo, env.cars, env.gateway, env.producer, nil, cfg, logger.New()).(*service)
	return env
}

func (e *testEnv) seedBooking(status Status, start, end time.Time) *Booking {
	b := &Booking{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		CarID:           e.car.ID,
		CarOwnerID:      e.car.OwnerID,
		StartDatetime:   start,
		EndDatetime:     end,
		Status:          status,
		TotalHours:      end.Sub(start).Hours(),
		PricePerHour:    100,
		SecurityDeposit: 500,
		PickupOTP:       "1234",
		DropOTP:         "5678",
	}
	e.repo.bookings[b.ID] = b
	return b
}

func createRequest(env *testEnv, start, end time.Time) *CreateBookingRequest {
	return &CreateBookingRequest{
		UserID:                 uuid.New().String(),
		CarID:                  env.car.ID.String(),
		StartDatetime:          start,
		EndDatetime:            end,
		PickupDeliveryLocation: "MG Road",
		TotalHours:             end.Sub(start).Hours(),
		PricePerHour:           100,
		SecurityDeposit:        500,
		GatewayPaymentID:       "pay_1",
	}
}

func TestCreateBookingCapturedPayment(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(24 * time.Hour)

	resp, err := env.svc.CreateBooking(context.Background(), createRequest(env, start, start.Add(5*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != StatusBooked {
		t.Errorf("expected booked status, got %s", resp.Status)
	}
	if resp.PaymentStatus != ledger.PaymentStatusPaid {
		t.Errorf("expected paid payment, got %s", resp.PaymentStatus)
	}
	if len(resp.PickupOTP) != 4 || len(resp.DropOTP) != 4 {
		t.Errorf("expected 4-digit OTPs, got %q and %q", resp.PickupOTP, resp.DropOTP)
	}

	if len(env.repo.tx.payments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(env.repo.tx.payments))
	}
	payment := env.repo.tx.payments[0]
	if got := env.repo.tx.linked[payment.ID]; got != resp.BookingID {
		t.Errorf("payment not linked to booking: got %s", got)
	}
	if len(env.repo.tx.windows) != 1 {
		t.Errorf("expected 1 availability window, got %d", len(env.repo.tx.windows))
	}
	if len(env.producer.events) != 1 || env.producer.events[0].Type != notifications.EventBookingCreated {
		t.Errorf("expected one BOOKING_CREATED event, got %v", env.producer.events)
	}
}

func TestCreateBookingGatewayUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = apperr.Upstream(context.DeadlineExceeded, "gateway timeout")
	start := time.Now().Add(24 * time.Hour)

	resp, err := env.svc.CreateBooking(context.Background(), createRequest(env, start, start.Add(5*time.Hour)))
	if err != nil {
		t.Fatalf("gateway failure must not fail booking creation: %v", err)
	}
	if resp.Status != StatusPaymentPending {
		t.Errorf("expected payment_pending, got %s", resp.Status)
	}
	if resp.PaymentStatus != ledger.PaymentStatusPending {
		t.Errorf("expected pending payment, got %s", resp.PaymentStatus)
	}
}

func TestCreateBookingPaymentNotCaptured(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.status = &payments.PaymentStatus{ID: "pay_1", Status: "failed"}
	start := time.Now().Add(24 * time.Hour)

	resp, err := env.svc.CreateBooking(context.Background(), createRequest(env, start, start.Add(5*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusPaymentPending {
		t.Errorf("expected payment_pending, got %s", resp.Status)
	}
	if resp.PaymentStatus != ledger.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", resp.PaymentStatus)
	}
}

func TestCreateBookingCarNotFound(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	req := createRequest(env, start, start.Add(5*time.Hour))
	req.CarID = uuid.New().String()

	_, err := env.svc.CreateBooking(context.Background(), req)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCreateBookingCouponSingleUse(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(24 * time.Hour)
	req := createRequest(env, start, start.Add(5*time.Hour))

	coupon := &ledger.Coupon{
		ID:                 uuid.New(),
		UserID:             uuid.MustParse(req.UserID),
		DiscountPercentage: 10,
	}
	env.repo.tx.coupons[coupon.ID] = coupon
	req.CouponID = coupon.ID.String()

	resp, err := env.svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := env.repo.bookings[resp.BookingID]; b.CouponDiscount != 10 {
		t.Errorf("expected coupon discount 10 on booking, got %v", b.CouponDiscount)
	}
	if !coupon.Used {
		t.Error("expected coupon marked used")
	}

	// Second booking with the same coupon must be rejected.
	req2 := createRequest(env, start, start.Add(5*time.Hour))
	req2.UserID = req.UserID
	req2.CouponID = coupon.ID.String()
	_, err = env.svc.CreateBooking(context.Background(), req2)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState for reused coupon, got %v", err)
	}
}

func TestConfirmPickup(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(5*time.Hour))

	booking, err := env.svc.ConfirmPickup(context.Background(), &PickupConfirmationRequest{
		BookingID:           b.ID.String(),
		OTP:                 "1234",
		BeforeFrontImageURL: "https://img/front.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != StatusPicked {
		t.Errorf("expected picked, got %s", booking.Status)
	}
	if !booking.PickupOTPUsed {
		t.Error("expected pickup OTP marked used")
	}
	if booking.PickedTime == nil {
		t.Error("expected picked time set")
	}
	if booking.BeforeFrontImageURL != "https://img/front.jpg" {
		t.Errorf("expected condition photo stored, got %q", booking.BeforeFrontImageURL)
	}
}

func TestConfirmPickupWrongOTP(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(5*time.Hour))

	_, err := env.svc.ConfirmPickup(context.Background(), &PickupConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "0000",
	})
	if apperr.KindOf(err) != apperr.KindInvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}

	// Failed verification leaves the booking untouched.
	stored := env.repo.bookings[b.ID]
	if stored.Status != StatusBooked || stored.PickupOTPUsed {
		t.Errorf("booking mutated by failed pickup: %+v", stored)
	}
}

func TestConfirmPickupSingleUse(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(5*time.Hour))

	req := &PickupConfirmationRequest{BookingID: b.ID.String(), OTP: "1234"}
	if _, err := env.svc.ConfirmPickup(context.Background(), req); err != nil {
		t.Fatalf("first pickup failed: %v", err)
	}

	_, err := env.svc.ConfirmPickup(context.Background(), req)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState on second pickup, got %v", err)
	}
}

func TestConfirmPickupRequiresBooked(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusPaymentPending, start, start.Add(5*time.Hour))

	_, err := env.svc.ConfirmPickup(context.Background(), &PickupConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "1234",
	})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestConfirmDropLateWithinDeposit(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Hour)
	b := env.seedBooking(StatusPicked, start, end)

	// Returned 3h after the scheduled end: 1h grace, then 2 late hours.
	env.svc.now = func() time.Time { return end.Add(3 * time.Hour) }

	result, err := env.svc.ConfirmDrop(context.Background(), &DropConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LateCharge != 200 {
		t.Errorf("expected late charge 200, got %v", result.LateCharge)
	}
	if result.RefundAmount != 300 {
		t.Errorf("expected refund 300, got %v", result.RefundAmount)
	}
	if result.PayoutAmount != 630 {
		t.Errorf("expected payout 630, got %v", result.PayoutAmount)
	}
	if result.PenaltyAmount != 0 {
		t.Errorf("expected no penalty, got %v", result.PenaltyAmount)
	}

	stored := env.repo.bookings[b.ID]
	if stored.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.LateCharge != 200 {
		t.Errorf("expected late charge persisted, got %v", stored.LateCharge)
	}

	if len(env.repo.tx.refunds) != 1 {
		t.Fatalf("expected 1 refund, got %d", len(env.repo.tx.refunds))
	}
	refund := env.repo.tx.refunds[0]
	if refund.Reason != ledger.RefundReasonRefundable || refund.RefundAmount != 300 || refund.DeductionAmount != 200 {
		t.Errorf("unexpected refund record: %+v", refund)
	}

	if len(env.repo.tx.payouts) != 1 {
		t.Fatalf("expected 1 payout, got %d", len(env.repo.tx.payouts))
	}
	payout := env.repo.tx.payouts[0]
	if payout.OwnerID != b.CarOwnerID || payout.PayoutAmount != 630 || payout.LateCharge != 200 {
		t.Errorf("unexpected payout record: %+v", payout)
	}

	if len(env.repo.tx.penalties) != 0 {
		t.Errorf("expected no penalties, got %d", len(env.repo.tx.penalties))
	}
	if env.repo.tx.removals != 1 {
		t.Errorf("expected availability window removed once, got %d", env.repo.tx.removals)
	}
}

func TestConfirmDropPenaltyWhenChargeExceedsDeposit(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Hour)
	b := env.seedBooking(StatusPicked, start, end)
	b.SecurityDeposit = 100

	// 4 late hours at 100/hr against a 100 deposit.
	env.svc.now = func() time.Time { return end.Add(5 * time.Hour) }

	result, err := env.svc.ConfirmDrop(context.Background(), &DropConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RefundAmount != 0 {
		t.Errorf("expected zero refund, got %v", result.RefundAmount)
	}
	if result.PenaltyAmount != 300 {
		t.Errorf("expected penalty 300, got %v", result.PenaltyAmount)
	}

	if len(env.repo.tx.penalties) != 1 {
		t.Fatalf("expected 1 penalty, got %d", len(env.repo.tx.penalties))
	}
	penalty := env.repo.tx.penalties[0]
	if penalty.UserID != b.UserID {
		t.Errorf("late drop penalty must target the renter, got %s", penalty.UserID)
	}
	if penalty.Reason != ledger.PenaltyReasonLateDrop || penalty.PaymentStatus != ledger.PenaltyUnpaid {
		t.Errorf("unexpected penalty record: %+v", penalty)
	}
}

func TestConfirmDropOnTime(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Hour)
	b := env.seedBooking(StatusPicked, start, end)

	env.svc.now = func() time.Time { return end.Add(30 * time.Minute) }

	result, err := env.svc.ConfirmDrop(context.Background(), &DropConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LateCharge != 0 || result.RefundAmount != 500 {
		t.Errorf("expected full deposit refund, got %+v", result)
	}
	if result.PayoutAmount != 450 {
		t.Errorf("expected payout 450, got %v", result.PayoutAmount)
	}
}

func TestConfirmDropRequiresPicked(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(5*time.Hour))

	_, err := env.svc.ConfirmDrop(context.Background(), &DropConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "5678",
	})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestCancelByUser(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(8*time.Hour))

	result, err := env.svc.CancelByUser(context.Background(), &CancellationRequest{
		BookingID:        b.ID.String(),
		UserID:           b.UserID.String(),
		RefundPercentage: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 8h at 100/hr: 400 refundable + 500 deposit.
	if result.RefundAmount != 900 {
		t.Errorf("expected refund 900, got %v", result.RefundAmount)
	}
	if result.DeductionAmount != 400 {
		t.Errorf("expected deduction 400, got %v", result.DeductionAmount)
	}
	if env.repo.bookings[b.ID].Status != StatusCancelledByUser {
		t.Errorf("expected cancelled_by_user, got %s", env.repo.bookings[b.ID].Status)
	}
	if env.repo.tx.removals != 1 {
		t.Errorf("expected availability removed, got %d removals", env.repo.tx.removals)
	}
}

func TestCancelByUserAfterStart(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(-time.Minute)
	b := env.seedBooking(StatusBooked, start, start.Add(8*time.Hour))

	_, err := env.svc.CancelByUser(context.Background(), &CancellationRequest{
		BookingID:        b.ID.String(),
		UserID:           b.UserID.String(),
		RefundPercentage: 50,
	})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState after window start, got %v", err)
	}
}

func TestCancelByUserWrongUser(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(8*time.Hour))

	_, err := env.svc.CancelByUser(context.Background(), &CancellationRequest{
		BookingID:        b.ID.String(),
		UserID:           uuid.New().String(),
		RefundPercentage: 50,
	})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestCancelByUserTerminalState(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusCancelledByUser, start, start.Add(8*time.Hour))

	_, err := env.svc.CancelByUser(context.Background(), &CancellationRequest{
		BookingID:        b.ID.String(),
		UserID:           b.UserID.String(),
		RefundPercentage: 50,
	})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState for terminal booking, got %v", err)
	}
}

func TestCancelByOwner(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(10*time.Hour))

	result, err := env.svc.CancelByOwner(context.Background(), &OwnerCancellationRequest{
		BookingID: b.ID.String(),
		OwnerID:   b.CarOwnerID.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Net 1000 plus 500 deposit back to the user.
	if result.RefundAmount != 1500 {
		t.Errorf("expected refund 1500, got %v", result.RefundAmount)
	}
	if env.repo.bookings[b.ID].Status != StatusCancelledByOwner {
		t.Errorf("expected cancelled_by_owner, got %s", env.repo.bookings[b.ID].Status)
	}

	if len(env.repo.tx.penalties) != 1 {
		t.Fatalf("expected 1 penalty, got %d", len(env.repo.tx.penalties))
	}
	penalty := env.repo.tx.penalties[0]
	if penalty.UserID != b.CarOwnerID || penalty.PenaltyAmount != 100 {
		t.Errorf("expected 100 penalty against owner, got %+v", penalty)
	}

	if len(env.repo.tx.issued) != 1 {
		t.Fatalf("expected 1 goodwill coupon, got %d", len(env.repo.tx.issued))
	}
	coupon := env.repo.tx.issued[0]
	if coupon.UserID != b.UserID || coupon.DiscountPercentage != 10 || coupon.Used {
		t.Errorf("unexpected coupon: %+v", coupon)
	}

	var types []notifications.EventType
	for _, e := range env.producer.events {
		types = append(types, e.Type)
	}
	if len(types) != 2 || types[0] != notifications.EventCancelledByOwner || types[1] != notifications.EventCouponIssued {
		t.Errorf("expected cancellation and coupon events, got %v", types)
	}
}

func TestCancelByOwnerIdempotencyGuard(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(10*time.Hour))

	req := &OwnerCancellationRequest{BookingID: b.ID.String(), OwnerID: b.CarOwnerID.String()}
	if _, err := env.svc.CancelByOwner(context.Background(), req); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	_, err := env.svc.CancelByOwner(context.Background(), req)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState on repeat cancel, got %v", err)
	}
	if len(env.repo.tx.refunds) != 1 {
		t.Errorf("repeat cancel must not create more refunds, got %d", len(env.repo.tx.refunds))
	}
}

func TestCancelByOwnerWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(48 * time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(10*time.Hour))

	_, err := env.svc.CancelByOwner(context.Background(), &OwnerCancellationRequest{
		BookingID: b.ID.String(),
		OwnerID:   uuid.New().String(),
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound for foreign owner, got %v", err)
	}
}

func TestMutationsRejectedWhileLockHeld(t *testing.T) {
	env := newTestEnv(t)
	env.svc.locker = heldLocker{}
	start := time.Now().Add(-time.Hour)
	b := env.seedBooking(StatusBooked, start, start.Add(5*time.Hour))

	_, err := env.svc.ConfirmPickup(context.Background(), &PickupConfirmationRequest{
		BookingID: b.ID.String(),
		OTP:       "1234",
	})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState while lock held, got %v", err)
	}
	if env.repo.bookings[b.ID].Status != StatusBooked {
		t.Error("booking must not change while lock held")
	}
}
