package models

import "time"

// Plan tiers. Payment processing lives in the external billing provider;
// here we only track which tier a user is on.
const (
	PlanFree    = "free"
	PlanStarter = "starter"
	PlanAdvance = "advance"
	PlanExpert  = "expert"
)

type UserBilling struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	PlanType   string `json:"plan_type" gorm:"default:free;not null"`
	PlanStatus string `json:"plan_status" gorm:"default:active;not null"` // active, suspended, cancelled

	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserBilling) TableName() string {
	return "user_billing"
}

// PlanPrices maps tier to monthly price in USD.
var PlanPrices = map[string]float64{
	PlanFree:    0,
	PlanStarter: 5.00,
	PlanAdvance: 17.50,
	PlanExpert:  29.50,
}
