package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"carzy/internal/cars"
	"carzy/internal/ledger"
	"carzy/internal/notifications"
	"carzy/internal/payments"
	"carzy/internal/shared/apperr"
	"carzy/internal/shared/config"
	"carzy/pkg/locks"
	"carzy/pkg/logger"
	"carzy/pkg/metrics"

	"github.com/google/uuid"
)

// Service drives the booking lifecycle. Every mutating operation runs under
// a per-booking distributed lock and a row-locked database transaction, so
// concurrent pickup/drop/cancel calls against the same booking serialize.
type Service interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error)
	ConfirmPickup(ctx context.Context, req *PickupConfirmationRequest) (*Booking, error)
	ConfirmDrop(ctx context.Context, req *DropConfirmationRequest) (*DropResult, error)
	CancelByUser(ctx context.Context, req *CancellationRequest) (*CancellationResult, error)
	CancelByOwner(ctx context.Context, req *OwnerCancellationRequest) (*CancellationResult, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	ListOwnerBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error)
}

type service struct {
	repo     Repository
	cars     cars.Repository
	gateway  payments.Gateway
	producer notifications.Producer
	locker   locks.Locker
	logger   *logger.Logger

	grace      time.Duration
	commission float64
	lockTTL    time.Duration

	now func() time.Time
}

func NewService(
	repo Repository,
	carRepo cars.Repository,
	gateway payments.Gateway,
	producer notifications.Producer,
	locker locks.Locker,
	cfg *config.Config,
	log *logger.Logger,
) Service {
	return &service{
		repo:       repo,
		cars:       carRepo,
		gateway:    gateway,
		producer:   producer,
		locker:     locker,
		logger:     log,
		grace:      cfg.Booking.GracePeriod,
		commission: cfg.Booking.PlatformCommission,
		lockTTL:    cfg.Redis.BookingLockTTL,
		now:        time.Now,
	}
}

// CreateBooking creates a booking with its payment record in one
// transaction. A confirmed gateway capture puts the booking straight into
// booked; an unconfirmed or unverifiable payment leaves it payment_pending.
// Gateway unavailability degrades, it never rejects.
func (s *service) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid user id")
	}
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid car id")
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		return nil, apperr.InvalidInput("end datetime must be after start datetime")
	}

	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	paymentStatus := ledger.PaymentStatusPending
	bookingStatus := StatusPaymentPending
	if req.GatewayPaymentID != "" {
		status, err := s.gateway.FetchPayment(ctx, req.GatewayPaymentID)
		switch {
		case err != nil:
			// Booking proceeds; payment reconciles later.
			s.logger.LogGatewayFailure(ctx, "fetch_payment", err)
			metrics.GatewayFailuresTotal.Inc()
		case status.Captured():
			paymentStatus = ledger.PaymentStatusPaid
			bookingStatus = StatusBooked
		default:
			paymentStatus = ledger.PaymentStatusFailed
		}
	}

	pickupOTP, err := generateOTP()
	if err != nil {
		return nil, err
	}
	dropOTP, err := generateOTP()
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:                     uuid.New(),
		UserID:                 userID,
		CarID:                  carID,
		CarOwnerID:             car.OwnerID,
		StartDatetime:          req.StartDatetime,
		EndDatetime:            req.EndDatetime,
		PickupDeliveryLocation: req.PickupDeliveryLocation,
		Latitude:               req.Latitude,
		Longitude:              req.Longitude,
		Status:                 bookingStatus,
		TotalHours:             req.TotalHours,
		PricePerHour:           req.PricePerHour,
		SecurityDeposit:        req.SecurityDeposit,
		CouponDiscount:         req.CouponDiscount,
		PickupOTP:              pickupOTP,
		DropOTP:                dropOTP,
	}

	err = s.repo.CreateBooking(ctx, func(tx TxOps) error {
		if req.CouponID != "" {
			couponID, err := uuid.Parse(req.CouponID)
			if err != nil {
				return apperr.InvalidInput("invalid coupon id")
			}
			coupon, err := tx.ConsumeCoupon(ctx, couponID, userID)
			if err != nil {
				return err
			}
			booking.CouponDiscount = coupon.DiscountPercentage
		}

		payment := &ledger.Payment{
			ID:               uuid.New(),
			UserID:           userID,
			TotalHours:       req.TotalHours,
			PricePerHour:     req.PricePerHour,
			SecurityDeposit:  req.SecurityDeposit,
			CouponDiscount:   booking.CouponDiscount,
			GatewayPaymentID: req.GatewayPaymentID,
			Status:           paymentStatus,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		booking.PaymentID = &payment.ID
		if err := tx.InsertBooking(ctx, booking); err != nil {
			return err
		}
		if err := tx.LinkPaymentBooking(ctx, payment.ID, booking.ID); err != nil {
			return err
		}

		return tx.AddAvailability(ctx, &cars.Availability{
			CarID:         carID,
			BookingID:     booking.ID,
			StartDatetime: req.StartDatetime,
			EndDatetime:   req.EndDatetime,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(paymentStatus).Inc()
	s.logger.LogBookingCreated(ctx, booking.ID.String(), carID.String(), userID.String(), paymentStatus)
	s.publishEvent(ctx, notifications.EventBookingCreated, booking, 0)

	return &CreateBookingResponse{
		BookingID:     booking.ID,
		Status:        booking.Status,
		PaymentStatus: paymentStatus,
		PickupOTP:     pickupOTP,
		DropOTP:       dropOTP,
	}, nil
}

// ConfirmPickup moves a booked booking to picked after OTP verification.
// The pickup OTP is single-use.
func (s *service) ConfirmPickup(ctx context.Context, req *PickupConfirmationRequest) (*Booking, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid booking id")
	}

	var result *Booking
	err = s.withBookingLock(ctx, bookingID, func() error {
		return s.repo.UpdateBooking(ctx, bookingID, func(tx TxOps, b *Booking) error {
			if b.PickupOTPUsed {
				return apperr.InvalidState("pickup already confirmed")
			}
			if b.Status != StatusBooked {
				return apperr.InvalidState("booking is %s, pickup requires a booked booking", b.Status)
			}
			if b.PickupOTP != req.OTP {
				return apperr.InvalidInput("incorrect pickup OTP")
			}

			setIfPresent(&b.BeforeFrontImageURL, req.BeforeFrontImageURL)
			setIfPresent(&b.BeforeRearImageURL, req.BeforeRearImageURL)
			setIfPresent(&b.BeforeLeftSideImageURL, req.BeforeLeftSideImageURL)
			setIfPresent(&b.BeforeRightSideImageURL, req.BeforeRightSideImageURL)
			setIfPresent(&b.BeforeInteriorImageURL, req.BeforeInteriorImageURL)

			now := s.now()
			b.Status = StatusPicked
			b.PickupOTPUsed = true
			b.PickedTime = &now

			result = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(StatusPicked.String()).Inc()
	s.logger.LogPickupConfirmed(ctx, bookingID.String())
	s.publishEvent(ctx, notifications.EventPickupConfirmed, result, 0)

	return result, nil
}

// ConfirmDrop completes a picked booking: verifies the drop OTP, settles the
// security deposit against lateness, and creates the refund, payout and (if
// the late charge exceeds the deposit) penalty records atomically with the
// state change.
func (s *service) ConfirmDrop(ctx context.Context, req *DropConfirmationRequest) (*DropResult, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid booking id")
	}

	var result *DropResult
	err = s.withBookingLock(ctx, bookingID, func() error {
		return s.repo.UpdateBooking(ctx, bookingID, func(tx TxOps, b *Booking) error {
			if b.DropOTPUsed {
				return apperr.InvalidState("drop already confirmed")
			}
			if b.Status != StatusPicked {
				return apperr.InvalidState("booking is %s, drop requires a picked booking", b.Status)
			}
			if b.DropOTP != req.OTP {
				return apperr.InvalidInput("incorrect drop OTP")
			}

			setIfPresent(&b.AfterFrontImageURL, req.AfterFrontImageURL)
			setIfPresent(&b.AfterRearImageURL, req.AfterRearImageURL)
			setIfPresent(&b.AfterLeftSideImageURL, req.AfterLeftSideImageURL)
			setIfPresent(&b.AfterRightSideImageURL, req.AfterRightSideImageURL)
			setIfPresent(&b.AfterInteriorImageURL, req.AfterInteriorImageURL)

			now := s.now()
			fee := ComputeLateFee(b.EndDatetime, s.grace, now, b.PricePerHour, b.SecurityDeposit)

			b.Status = StatusCompleted
			b.DropOTPUsed = true
			b.ReturnedTime = &now
			b.LateCharge = fee.LateCharge

			refund := &ledger.Refund{
				UserID:       b.UserID,
				BookingID:    b.ID,
				Reason:       ledger.RefundReasonRefundable,
				RefundAmount: fee.RefundAmount,
			}
			if fee.LateHours > 0 {
				refund.DeductionAmount = b.SecurityDeposit - fee.RefundAmount
				refund.DeductionReason = fmt.Sprintf("late return charge for %d hour(s)", fee.LateHours)
			}
			if err := tx.CreateRefund(ctx, refund); err != nil {
				return err
			}

			if fee.PenaltyAmount > 0 {
				penalty := &ledger.Penalty{
					UserID:        b.UserID,
					BookingID:     b.ID,
					PenaltyAmount: fee.PenaltyAmount,
					PenaltyReason: fmt.Sprintf("late charge of %.2f exceeds security deposit of %.2f", fee.LateCharge, b.SecurityDeposit),
					Reason:        ledger.PenaltyReasonLateDrop,
					PaymentStatus: ledger.PenaltyUnpaid,
				}
				if err := tx.CreatePenalty(ctx, penalty); err != nil {
					return err
				}
				metrics.PenaltiesIssuedTotal.WithLabelValues(ledger.PenaltyReasonLateDrop).Inc()
			}

			payout := ComputePayout(b.TotalHours, b.PricePerHour, b.CouponDiscount, fee.LateCharge, s.commission)
			if err := tx.CreatePayout(ctx, &ledger.Payout{
				OwnerID:        b.CarOwnerID,
				BookingID:      b.ID,
				CarID:          b.CarID,
				TotalHours:     b.TotalHours,
				PricePerHour:   b.PricePerHour,
				CouponDiscount: b.CouponDiscount,
				LateCharge:     fee.LateCharge,
				PayoutAmount:   payout.PayoutAmount,
				Status:         ledger.ClaimStatusPending,
			}); err != nil {
				return err
			}

			if err := tx.RemoveAvailability(ctx, b.CarID, b.StartDatetime, b.EndDatetime); err != nil {
				return err
			}

			result = &DropResult{
				BookingID:     b.ID,
				LateCharge:    fee.LateCharge,
				RefundAmount:  fee.RefundAmount,
				PayoutAmount:  payout.PayoutAmount,
				PenaltyAmount: fee.PenaltyAmount,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(StatusCompleted.String()).Inc()
	metrics.RefundsIssuedTotal.WithLabelValues(ledger.RefundReasonRefundable).Inc()
	s.logger.LogDropConfirmed(ctx, bookingID.String(), result.LateCharge, result.RefundAmount, result.PayoutAmount)

	booking, getErr := s.repo.GetByID(ctx, bookingID)
	if getErr == nil {
		s.publishEvent(ctx, notifications.EventDropConfirmed, booking, result.PayoutAmount)
	}

	return result, nil
}

// CancelByUser cancels the caller's own booking before the rental window
// starts. The refund percentage comes from the pricing tier the client
// resolved; it is clamped below at zero and logged (but honored) above 100.
func (s *service) CancelByUser(ctx context.Context, req *CancellationRequest) (*CancellationResult, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid booking id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid user id")
	}

	if req.RefundPercentage > 100 {
		s.logger.InfoWithContext(ctx, "refund percentage above 100, honoring as given", map[string]interface{}{
			"booking_id":        req.BookingID,
			"refund_percentage": req.RefundPercentage,
		})
	}

	var result *CancellationResult
	err = s.withBookingLock(ctx, bookingID, func() error {
		return s.repo.UpdateBooking(ctx, bookingID, func(tx TxOps, b *Booking) error {
			if b.UserID != userID {
				return apperr.Forbidden("booking does not belong to user")
			}
			if b.IsTerminal() {
				return apperr.InvalidState("booking is already %s", b.Status)
			}
			if !s.now().Before(b.StartDatetime) {
				return apperr.InvalidState("booking window has already started")
			}

			calc := ComputeUserCancellation(b.TotalHours, b.PricePerHour, b.CouponDiscount, b.SecurityDeposit, req.RefundPercentage)

			b.Status = StatusCancelledByUser

			if err := tx.CreateRefund(ctx, &ledger.Refund{
				UserID:          b.UserID,
				BookingID:       b.ID,
				Reason:          ledger.RefundReasonCancelledByUser,
				RefundAmount:    calc.TotalRefund,
				DeductionAmount: calc.DeductionAmount,
				DeductionReason: "cancellation charge",
			}); err != nil {
				return err
			}

			if err := tx.RemoveAvailability(ctx, b.CarID, b.StartDatetime, b.EndDatetime); err != nil {
				return err
			}

			result = &CancellationResult{
				BookingID:       b.ID,
				Status:          StatusCancelledByUser,
				RefundAmount:    calc.TotalRefund,
				DeductionAmount: calc.DeductionAmount,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(StatusCancelledByUser.String()).Inc()
	metrics.RefundsIssuedTotal.WithLabelValues(ledger.RefundReasonCancelledByUser).Inc()
	s.logger.LogBookingCancelled(ctx, bookingID.String(), "user", result.RefundAmount)

	booking, getErr := s.repo.GetByID(ctx, bookingID)
	if getErr == nil {
		s.publishEvent(ctx, notifications.EventCancelledByUser, booking, result.RefundAmount)
	}

	return result, nil
}

// CancelByOwner cancels a booking on behalf of the car owner. The user is
// refunded in full (net rent plus deposit), the owner is penalized, and the
// user receives a goodwill coupon, all in one transaction.
func (s *service) CancelByOwner(ctx context.Context, req *OwnerCancellationRequest) (*CancellationResult, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid booking id")
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, apperr.InvalidInput("invalid owner id")
	}

	var result *CancellationResult
	err = s.withBookingLock(ctx, bookingID, func() error {
		return s.repo.UpdateBooking(ctx, bookingID, func(tx TxOps, b *Booking) error {
			if b.CarOwnerID != ownerID {
				// Ownership mismatch reads the same as absence.
				return apperr.NotFound("booking not found")
			}
			if b.IsTerminal() {
				return apperr.InvalidState("booking is already %s", b.Status)
			}

			oc := ComputeOwnerCancellation(b.TotalHours, b.PricePerHour, b.CouponDiscount, b.SecurityDeposit)

			b.Status = StatusCancelledByOwner

			if err := tx.CreateRefund(ctx, &ledger.Refund{
				UserID:       b.UserID,
				BookingID:    b.ID,
				Reason:       ledger.RefundReasonCancelledByOwner,
				RefundAmount: oc.RefundAmount,
			}); err != nil {
				return err
			}

			if err := tx.CreatePenalty(ctx, &ledger.Penalty{
				UserID:        b.CarOwnerID,
				BookingID:     b.ID,
				PenaltyAmount: oc.PenaltyAmount,
				PenaltyReason: "cancelled a confirmed booking",
				Reason:        ledger.PenaltyReasonCancelledByOwner,
				PaymentStatus: ledger.PenaltyUnpaid,
			}); err != nil {
				return err
			}

			if err := tx.IssueCoupon(ctx, &ledger.Coupon{
				UserID:             b.UserID,
				DiscountPercentage: OwnerCancelCouponPercent,
				Used:               false,
				IssuedForReason:    "owner cancelled booking " + b.ID.String(),
			}); err != nil {
				return err
			}

			if err := tx.RemoveAvailability(ctx, b.CarID, b.StartDatetime, b.EndDatetime); err != nil {
				return err
			}

			result = &CancellationResult{
				BookingID:    b.ID,
				Status:       StatusCancelledByOwner,
				RefundAmount: oc.RefundAmount,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(StatusCancelledByOwner.String()).Inc()
	metrics.RefundsIssuedTotal.WithLabelValues(ledger.RefundReasonCancelledByOwner).Inc()
	metrics.PenaltiesIssuedTotal.WithLabelValues(ledger.PenaltyReasonCancelledByOwner).Inc()
	s.logger.LogBookingCancelled(ctx, bookingID.String(), "owner", result.RefundAmount)

	booking, getErr := s.repo.GetByID(ctx, bookingID)
	if getErr == nil {
		s.publishEvent(ctx, notifications.EventCancelledByOwner, booking, result.RefundAmount)
		s.publishEvent(ctx, notifications.EventCouponIssued, booking, OwnerCancelCouponPercent)
	}

	return result, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListOwnerBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// withBookingLock serializes mutating operations per booking. A nil locker
// (single-instance deployments, tests) skips straight to the row lock.
func (s *service) withBookingLock(ctx context.Context, bookingID uuid.UUID, fn func() error) error {
	if s.locker == nil {
		return fn()
	}

	release, err := s.locker.Acquire(ctx, "booking_lock:"+bookingID.String(), s.lockTTL)
	if err != nil {
		if errors.Is(err, locks.ErrLockHeld) {
			return apperr.InvalidState("booking is being processed by another request")
		}
		return err
	}
	defer release()

	return fn()
}

// publishEvent emits a lifecycle event; delivery failures are logged and
// never fail the operation that triggered them.
func (s *service) publishEvent(ctx context.Context, eventType notifications.EventType, b *Booking, amount float64) {
	event := notifications.NewBookingEvent(eventType, b.ID, b.UserID, b.CarOwnerID, b.CarID, b.Status.String(), amount)
	if err := s.producer.PublishBookingEvent(ctx, event); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish booking event", err, map[string]interface{}{
			"event_type": string(eventType),
			"booking_id": b.ID.String(),
		})
	}
}

func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// generateOTP returns a 4-digit numeric code in [1000, 9999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
