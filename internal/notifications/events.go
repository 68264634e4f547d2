package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a booking lifecycle event
type EventType string

const (
	EventBookingCreated   EventType = "BOOKING_CREATED"
	EventPickupConfirmed  EventType = "PICKUP_CONFIRMED"
	EventDropConfirmed    EventType = "DROP_CONFIRMED"
	EventCancelledByUser  EventType = "CANCELLED_BY_USER"
	EventCancelledByOwner EventType = "CANCELLED_BY_OWNER"
	EventCouponIssued     EventType = "COUPON_ISSUED"
)

// BookingEvent is the message published for every booking state transition.
// Consumers (push, email, SMS workers) fan it out to the affected parties.
type BookingEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	BookingID uuid.UUID `json:"booking_id"`
	UserID    uuid.UUID `json:"user_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CarID     uuid.UUID `json:"car_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingEvent builds a lifecycle event ready to publish
func NewBookingEvent(eventType EventType, bookingID, userID, ownerID, carID uuid.UUID, status string, amount float64) *BookingEvent {
	return &BookingEvent{
		ID:        uuid.New(),
		Type:      eventType,
		BookingID: bookingID,
		UserID:    userID,
		OwnerID:   ownerID,
		CarID:     carID,
		Status:    status,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey routes all events for one booking to the same partition
// so consumers observe transitions in order.
func (e *BookingEvent) GetPartitionKey() string {
	return e.BookingID.String()
}

// SMSMessage is a request to deliver a text to a mobile number, used by the
// login OTP channel.
type SMSMessage struct {
	ID           uuid.UUID `json:"id"`
	MobileNumber string    `json:"mobile_number"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSMSMessage builds an SMS dispatch request
func NewSMSMessage(mobileNumber, body string) *SMSMessage {
	return &SMSMessage{
		ID:           uuid.New(),
		MobileNumber: mobileNumber,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}
}

// ToJSON serializes the message for the wire
func (m *SMSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
