package models

import "time"

// BagTVControl BağTV tesis kontrol kaydı. Periyodu yoktur, taşınmaz.
// approval_status kolonu sonradan eklendi; eski şemalarda bulunmayabilir.
type BagTVControl struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FacilityID      *uint          `gorm:"index" json:"facilityId"`
	ControlPoint    string         `gorm:"size:255;not null" json:"controlPoint"`
	Notes           string         `gorm:"type:text" json:"notes"`
	Date            time.Time      `gorm:"index;not null" json:"date"`
	ControlledBy    string         `gorm:"size:100;index" json:"controlledBy"`
	Status          string         `gorm:"size:20;not null" json:"status"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;index" json:"approvalStatus"`
	ApprovedBy      string         `gorm:"size:100" json:"approvedBy"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	RejectionReason string         `gorm:"size:500" json:"rejectionReason"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (BagTVControl) TableName() string { return "bagtv_controls" }

func (b *BagTVControl) ApprovalState() ApprovalStatus { return b.ApprovalStatus }
