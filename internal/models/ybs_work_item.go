package models

import "time"

// YBSWorkItem YBS proje iş kalemi. Oluşturulduğunda onay durumu pending'dir,
// fakat onay kuyruğuna ancak status completed olduğunda düşer.
type YBSWorkItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Period          Period         `gorm:"size:20" json:"period"`
	Date            time.Time      `gorm:"index;not null" json:"date"`
	CompletionDate  *time.Time     `json:"completionDate"`
	FacilityID      *uint          `gorm:"index" json:"facilityId"`
	AssignedUser    string         `gorm:"size:100;index" json:"assignedUser"`
	Status          string         `gorm:"size:20;not null" json:"status"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;index;default:pending" json:"approvalStatus"`
	ApprovedBy      string         `gorm:"size:100" json:"approvedBy"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	RejectionReason string         `gorm:"size:500" json:"rejectionReason"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (YBSWorkItem) TableName() string { return "ybs_work_items" }

func (y *YBSWorkItem) ApprovalState() ApprovalStatus { return y.ApprovalStatus }
