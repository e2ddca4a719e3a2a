package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestKind string

const (
	MaintenanceRequest RequestKind = "maintenance"
	CleaningRequest    RequestKind = "cleaning"
)

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// ServiceRequest backs both the maintenance and the cleaning queues.
type ServiceRequest struct {
	gorm.Model
	Kind            RequestKind   `json:"kind" gorm:"size:20;not null;index"`
	UnitID          uint          `json:"unit_id" gorm:"index;not null"`
	Unit            *Unit         `json:"unit,omitempty"`
	TenantID        *uint         `json:"tenant_id"`
	AssignedStaffID *uint         `json:"assigned_staff_id" gorm:"index"`
	AssignedStaff   *Staff        `json:"assigned_staff,omitempty"`
	Title           string        `json:"title" gorm:"size:200;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	Priority        string        `json:"priority" gorm:"size:20;default:medium"`
	Status          RequestStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	ScheduledFor    *time.Time    `json:"scheduled_for"`
	CompletedAt     *time.Time    `json:"completed_at"`
	Cost            float64       `json:"cost"`
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:    {RequestInProgress, RequestCancelled},
	RequestInProgress: {RequestCompleted, RequestCancelled},
}

// CanTransition reports whether a request may move from one status to another.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Staff struct {
	gorm.Model
	FirstName string    `json:"first_name" gorm:"size:100;not null"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:30"`
	Position  string    `json:"position" gorm:"size:100"`
	Salary    float64   `json:"salary"`
	HiredAt   time.Time `json:"hired_at"`
	Status    string    `json:"status" gorm:"size:20;default:active"`
	UserID    *uint     `json:"user_id" gorm:"index"`
}

type Review struct {
	gorm.Model
	TenantID *uint  `json:"tenant_id" gorm:"index"`
	UnitID   *uint  `json:"unit_id" gorm:"index"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string `json:"comment" gorm:"type:text;not null"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled},
}

func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	for _, next := range reservationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Reservation struct {
	gorm.Model
	UnitID     uint              `json:"unit_id" gorm:"index;not null"`
	Unit       *Unit             `json:"unit,omitempty"`
	GuestName  string            `json:"guest_name" gorm:"size:200;not null"`
	GuestEmail string            `json:"guest_email" gorm:"size:255"`
	GuestPhone string            `json:"guest_phone" gorm:"size:30"`
	CheckIn    time.Time         `json:"check_in"`
	CheckOut   time.Time         `json:"check_out"`
	Status     ReservationStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	Notes      string            `json:"notes" gorm:"type:text"`
}
