package models

import "time"

// ControlItem günlük/periyodik kontrol kalemi. Onay durumu ancak kalem
// Tamamlandı durumuna geçtiğinde pending olur.
type ControlItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	WorkDone        string         `gorm:"type:text" json:"workDone"`
	Period          Period         `gorm:"size:20;index:idx_control_items_period_date;not null" json:"period"`
	Date            time.Time      `gorm:"index:idx_control_items_period_date;not null" json:"date"`
	CompletionDate  *time.Time     `json:"completionDate"`
	FacilityID      *uint          `gorm:"index" json:"facilityId"`
	AssignedUser    string         `gorm:"size:100;index" json:"assignedUser"`
	Status          string         `gorm:"size:20;not null" json:"status"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;index" json:"approvalStatus"`
	ApprovedBy      string         `gorm:"size:100" json:"approvedBy"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	RejectionReason string         `gorm:"size:500" json:"rejectionReason"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (c *ControlItem) ApprovalState() ApprovalStatus { return c.ApprovalStatus }
