package domain

import (
	"errors"
	"time"
)

// TeamStatus tracks the approval state of a transport team.
type TeamStatus string

const (
	TeamPending  TeamStatus = "pending"
	TeamApproved TeamStatus = "approved"
	TeamRejected TeamStatus = "rejected"
)

var ErrTeamNotFound = errors.New("team not found")
var ErrTeamExists = errors.New("owner already has a team")

// Team is a transport crew registered by a user and approved by an administrator.
type Team struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Name        string     `json:"team_name" bson:"team_name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	VehicleType string     `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	Region      string     `json:"region,omitempty" bson:"region,omitempty"`
	Price       int64      `json:"price" bson:"price"`
	MemberCount int        `json:"member_count" bson:"member_count"`
	OwnerID     string     `json:"owner" bson:"owner"`
	Members     []string   `json:"members" bson:"members"`
	Status      TeamStatus `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
}
