package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a shipment order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPicking    OrderStatus = "picking"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// DefaultPaymentMethod is recorded on every order; payment is simulated.
const DefaultPaymentMethod = "PayPal"

// Defaults for order fields the customer left out.
const (
	DefaultWeightKg = 1.0
	DefaultWorkers  = 1
)

var allStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPicking,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderAlreadyPaid = errors.New("order already paid")
var ErrInvalidStatus = errors.New("invalid order status")
var ErrNoRecipient = errors.New("order owner has no email")
var ErrRequestInProgress = errors.New("a request with this idempotency key is still in progress")

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a customer's shipment request together with its charged price.
type Order struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	UserID          string      `json:"user" bson:"user"`
	SenderName      string      `json:"sender_name" bson:"sender_name"`
	SenderPhone     string      `json:"sender_phone,omitempty" bson:"sender_phone,omitempty"`
	ReceiverName    string      `json:"receiver_name" bson:"receiver_name"`
	ReceiverPhone   string      `json:"receiver_phone,omitempty" bson:"receiver_phone,omitempty"`
	PickupAddress   string      `json:"pickup_address" bson:"pickup_address"`
	DeliveryAddress string      `json:"delivery_address" bson:"delivery_address"`
	PackageType     string      `json:"package_type" bson:"package_type"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	WeightKg        float64     `json:"weight_kg" bson:"weight_kg"`
	DeclaredValue   float64     `json:"declared_value,omitempty" bson:"declared_value,omitempty"`
	VehicleType     string      `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	ServiceType     string      `json:"service_type,omitempty" bson:"service_type,omitempty"`
	Floors          int         `json:"floors" bson:"floors"`
	Workers         int         `json:"workers" bson:"workers"`
	DistanceToTruck string      `json:"distance_to_truck,omitempty" bson:"distance_to_truck,omitempty"`
	DistanceKm      float64     `json:"distance_km" bson:"distance_km"`
	Price           int64       `json:"price" bson:"price"`
	IsPaid          bool        `json:"isPaid" bson:"is_paid"`
	PaidAt          *time.Time  `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	PaymentMethod   string      `json:"paymentMethod" bson:"payment_method"`
	Status          OrderStatus `json:"status" bson:"status"`
	Note            string      `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updated_at"`
}
