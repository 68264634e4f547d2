package bookings

import (
	"math"
	"time"
)

// Money derivations are pure functions of booking fields. Note the rounding
// asymmetry: late hours round up to whole hours and the late charge is
// truncated to an integer amount, while cancellation refunds round to two
// decimals. Both behaviors are load-bearing and covered by tests.

// OwnerCancelPenaltyRate is the share of the net rent charged to an owner
// who cancels a confirmed booking.
const OwnerCancelPenaltyRate = 0.10

// OwnerCancelCouponPercent is the discount on the goodwill coupon issued to
// the user when the owner cancels.
const OwnerCancelCouponPercent = 10.0

// LateFee is the outcome of the lateness computation at drop time.
type LateFee struct {
	LateHours     int
	LateCharge    float64
	RefundAmount  float64
	PenaltyAmount float64 // nonzero only when the charge exceeds the deposit
}

// ComputeLateFee resolves the security deposit against lateness. The grace
// period extends the scheduled end; within it the full deposit is refunded.
// Beyond it, each started hour bills at the hourly rate: first against the
// deposit, with any excess becoming a penalty.
func ComputeLateFee(endDatetime time.Time, grace time.Duration, now time.Time, pricePerHour, securityDeposit float64) LateFee {
	graceEnd := endDatetime.Add(grace)
	if !now.After(graceEnd) {
		return LateFee{RefundAmount: securityDeposit}
	}

	lateHours := int(math.Ceil(now.Sub(graceEnd).Hours()))
	lateCharge := math.Trunc(pricePerHour * float64(lateHours))

	fee := LateFee{
		LateHours:  lateHours,
		LateCharge: lateCharge,
	}
	if lateCharge <= securityDeposit {
		fee.RefundAmount = securityDeposit - lateCharge
	} else {
		fee.PenaltyAmount = lateCharge - securityDeposit
	}
	return fee
}

// PayoutBreakdown is the owner earning computation at drop time.
type PayoutBreakdown struct {
	BaseRent       float64
	CouponAmount   float64
	EarningBefore  float64
	PayoutAmount   float64
}

// ComputePayout derives the owner payout: late charges accrue to the owner,
// the coupon discount comes out of the rent, and the platform retains its
// commission from the remainder.
func ComputePayout(totalHours, pricePerHour, couponDiscount, lateCharge, commission float64) PayoutBreakdown {
	baseRent := totalHours * pricePerHour
	couponAmount := math.Round(baseRent * couponDiscount / 100)
	earning := lateCharge + baseRent - couponAmount
	return PayoutBreakdown{
		BaseRent:      baseRent,
		CouponAmount:  couponAmount,
		EarningBefore: earning,
		PayoutAmount:  (1 - commission) * earning,
	}
}

// UserCancellation is the refund split for a user-initiated cancellation.
type UserCancellation struct {
	MainAmount       float64
	RefundableAmount float64
	DeductionAmount  float64
	TotalRefund      float64
}

// ComputeUserCancellation splits the discounted rent by the caller-supplied
// refund percentage. The percentage is clamped at zero below; values above
// 100 pass through as-is (reference behavior, flagged upstream).
func ComputeUserCancellation(totalHours, pricePerHour, couponDiscount, securityDeposit, refundPercentage float64) UserCancellation {
	if refundPercentage < 0 {
		refundPercentage = 0
	}

	baseRent := totalHours * pricePerHour
	mainAmount := baseRent - baseRent*couponDiscount/100
	refundable := roundTo2(mainAmount * refundPercentage / 100)
	return UserCancellation{
		MainAmount:       mainAmount,
		RefundableAmount: refundable,
		DeductionAmount:  mainAmount - refundable,
		TotalRefund:      refundable + securityDeposit,
	}
}

// OwnerCancellation is the money movement for an owner-initiated
// cancellation: the user is made whole, the owner is penalized.
type OwnerCancellation struct {
	NetAmount     float64
	RefundAmount  float64
	PenaltyAmount float64
}

// ComputeOwnerCancellation refunds the user the full discounted rent plus
// the security deposit, and charges the owner a fixed percentage of the
// net amount.
func ComputeOwnerCancellation(totalHours, pricePerHour, couponDiscount, securityDeposit float64) OwnerCancellation {
	baseRent := totalHours * pricePerHour
	net := baseRent - baseRent*couponDiscount/100
	return OwnerCancellation{
		NetAmount:     net,
		RefundAmount:  net + securityDeposit,
		PenaltyAmount: roundTo2(OwnerCancelPenaltyRate * net),
	}
}

func roundTo2(x float64) float64 {
	return math.Round(x*100) / 100
}
