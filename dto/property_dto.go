package dto

type OwnerDto struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone" validate:"max=30"`
	Address      string  `json:"address" validate:"max=500"`
	RevenueShare float64 `json:"revenue_share" validate:"gte=0,lte=100"`
}

type UnitDto struct {
	Number    string  `json:"number" validate:"required,max=50"`
	Building  string  `json:"building" validate:"max=200"`
	Address   string  `json:"address" validate:"max=500"`
	Type      string  `json:"type" validate:"max=50"`
	Bedrooms  int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms float64 `json:"bathrooms" validate:"gte=0"`
	SizeSqft  float64 `json:"size_sqft" validate:"gte=0"`
	Rent      float64 `json:"rent" validate:"gte=0"`
	Status    string  `json:"status" validate:"omitempty,oneof=vacant occupied maintenance"`
	OwnerID   *uint   `json:"owner_id"`
}

type TenantDto struct {
	FirstName        string `json:"first_name" validate:"required,min=1,max=100"`
	LastName         string `json:"last_name" validate:"required,min=1,max=100"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone" validate:"max=30"`
	EmergencyContact string `json:"emergency_contact" validate:"max=255"`
	Notes            string `json:"notes"`
}

type LeaseDto struct {
	UnitID      uint    `json:"unit_id" validate:"required"`
	TenantID    uint    `json:"tenant_id" validate:"required"`
	StartDate   Date    `json:"start_date" validate:"required"`
	EndDate     Date    `json:"end_date" validate:"required"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gt=0"`
	Deposit     float64 `json:"deposit" validate:"gte=0"`
}

type PaymentDto struct {
	LeaseID   uint    `json:"lease_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	DueDate   Date    `json:"due_date" validate:"required"`
	Method    string  `json:"method" validate:"omitempty,oneof=cash bank_transfer card check"`
	Reference string  `json:"reference" validate:"max=64"`
	Notes     string  `json:"notes"`
}

type PayPaymentDto struct {
	Method string `json:"method" validate:"required,oneof=cash bank_transfer card check"`
	PaidAt *Date  `json:"paid_at"`
}
