package dto

type ServiceRequestDto struct {
	UnitID          uint    `json:"unit_id" validate:"required"`
	TenantID        *uint   `json:"tenant_id"`
	AssignedStaffID *uint   `json:"assigned_staff_id"`
	Title           string  `json:"title" validate:"required,min=2,max=200"`
	Description     string  `json:"description"`
	Priority        string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ScheduledFor    *Date   `json:"scheduled_for"`
	Cost            float64 `json:"cost" validate:"gte=0"`
}

type StatusDto struct {
	Status string `json:"status" validate:"required"`
}

type StaffDto struct {
	FirstName     string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string  `json:"last_name" validate:"required,min=1,max=100"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone" validate:"max=30"`
	Position      string  `json:"position" validate:"max=100"`
	Salary        float64 `json:"salary" validate:"gte=0"`
	HiredAt       Date    `json:"hired_at"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive"`
	CreateAccount bool    `json:"create_account"`
	Password      string  `json:"password" validate:"omitempty,min=8,max=72"`
}

type ReviewDto struct {
	TenantID *uint  `json:"tenant_id"`
	UnitID   *uint  `json:"unit_id"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required,max=2000"`
}

type ReservationDto struct {
	UnitID     uint   `json:"unit_id" validate:"required"`
	GuestName  string `json:"guest_name" validate:"required,min=2,max=200"`
	GuestEmail string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone string `json:"guest_phone" validate:"max=30"`
	CheckIn    Date   `json:"check_in" validate:"required"`
	CheckOut   Date   `json:"check_out" validate:"required"`
	Notes      string `json:"notes"`
}
