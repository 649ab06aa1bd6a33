package handler

import "github.com/vanchuyen/logistics-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Orders ---

// createOrderRequest is the order form. Omitted weight_kg and workers take the
// order defaults; explicit zeros are kept. Upper bounds keep prices inside int64.
type createOrderRequest struct {
	SenderName      string   `json:"sender_name"       validate:"required"`
	SenderPhone     string   `json:"sender_phone"`
	ReceiverName    string   `json:"receiver_name"     validate:"required"`
	ReceiverPhone   string   `json:"receiver_phone"`
	PickupAddress   string   `json:"pickup_address"    validate:"required"`
	DeliveryAddress string   `json:"delivery_address"  validate:"required"`
	PackageType     string   `json:"package_type"      validate:"required"`
	Description     string   `json:"description"`
	WeightKg        *float64 `json:"weight_kg"         validate:"omitempty,gte=0,lte=100000"`
	DeclaredValue   float64  `json:"declared_value"    validate:"gte=0,lte=1000000000000"`
	VehicleType     string   `json:"vehicle_type"`
	ServiceType     string   `json:"service_type"`
	Floors          int      `json:"floors"            validate:"gte=0,lte=1000"`
	Workers         *int     `json:"workers"           validate:"omitempty,gte=0,lte=1000"`
	DistanceToTruck string   `json:"distance_to_truck"`
	DistanceKm      float64  `json:"distance_km"       validate:"gte=0,lte=100000"`
	Price           float64  `json:"price"             validate:"gte=0,lte=1000000000000"`
	Note            string   `json:"note"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// estimateRequest mirrors the quick-estimate form. Omitted weight counts as 1 kg.
type estimateRequest struct {
	DistanceMeters float64  `json:"distance"      validate:"gte=0,lte=100000000"`
	WeightKg       *float64 `json:"weight_kg"     validate:"omitempty,gte=0,lte=100000"`
	Floors         int      `json:"floors"        validate:"gte=0,lte=1000"`
	Workers        int      `json:"workers"       validate:"gte=0,lte=1000"`
	VehicleType    string   `json:"vehicle_type"`
	ServiceType    string   `json:"service_type"`
	PackageType    string   `json:"package_type"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order"`
}

// --- Statistics ---

// statsQuery carries the dashboard filters. Unknown types fall back to a day window.
type statsQuery struct {
	Date string `query:"date"`
	Type string `query:"type"`
}

// --- Prices ---

type updatePriceRequest struct {
	BasePrice     *int64 `json:"base_price"     validate:"omitempty,gte=0"`
	PerKmPrice    *int64 `json:"per_km_price"   validate:"omitempty,gte=0"`
	OverweightFee *int64 `json:"overweight_fee" validate:"omitempty,gte=0"`
	ExpressFee    *int64 `json:"express_fee"    validate:"omitempty,gte=0"`
	Note          string `json:"note"`
}

// --- Teams ---

type registerTeamRequest struct {
	Name        string   `json:"team_name"    validate:"required"`
	Description string   `json:"description"`
	VehicleType string   `json:"vehicle_type"`
	Region      string   `json:"region"`
	Price       int64    `json:"price"        validate:"gte=0"`
	MemberCount int      `json:"member_count" validate:"gte=0"`
	Members     []string `json:"members"`
}

type teamResponse struct {
	Message string       `json:"message"`
	Team    *domain.Team `json:"team"`
}

// --- Users ---

type updateUserStatusRequest struct {
	Status string `json:"status"`
}
