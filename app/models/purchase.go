package models

import "time"

// Purchase records a completed one-time course checkout. ExternalPurchaseID
// is the provider reference and is unique, so a redelivered checkout event
// can never produce a second row.
type Purchase struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id" validate:"required"`
	CourseID           string    `gorm:"type:varchar(191);not null;index" json:"course_id" validate:"required,max=191"`
	Amount             int64     `gorm:"not null;default:0" json:"amount" validate:"gte=0"`
	ExternalPurchaseID string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_purchases_external_id" json:"external_purchase_id" validate:"required,max=191"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Purchase) Validate() error {
	return validate.Struct(p)
}
