package models

import "time"

// Message bir mesaj gönderim kaydı. Gönderimin kendisi dış servistedir;
// burada sadece kayıt ve onayı tutulur.
type Message struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FacilityID      *uint          `gorm:"index" json:"facilityId"`
	Sender          string         `gorm:"size:100;index;not null" json:"sender"`
	Recipient       string         `gorm:"size:100" json:"recipient"`
	Subject         string         `gorm:"size:255" json:"subject"`
	Content         string         `gorm:"type:text" json:"content"`
	SentAt          time.Time      `gorm:"index;not null" json:"sentAt"`
	Status          string         `gorm:"size:20" json:"status"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;index" json:"approvalStatus"`
	ApprovedBy      string         `gorm:"size:100" json:"approvedBy"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	RejectionReason string         `gorm:"size:500" json:"rejectionReason"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (m *Message) ApprovalState() ApprovalStatus { return m.ApprovalStatus }
