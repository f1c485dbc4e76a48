package approval

import (
	"time"

	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"
)

// PendingItem onay kuyruğundaki bir kaydın türden bağımsız görünümü.
type PendingItem struct {
	ID             string                `json:"id"`
	DisplayID      uint                  `json:"displayId"`
	Type           workitem.Kind         `json:"type"`
	Title          string                `json:"title"`
	WorkDone       string                `json:"workDone"`
	Period         models.Period         `json:"period,omitempty"`
	FacilityID     *uint                 `json:"facilityId"`
	AssignedUser   string                `json:"assignedUser"`
	Status         string                `json:"status"`
	ApprovalStatus models.ApprovalStatus `json:"approvalStatus"`
	CompletionDate time.Time             `json:"completionDate"`
}

// Viewer kuyruğu isteyen kişi. Admin olmayanlar sadece kendi kayıtlarını görür.
type Viewer struct {
	Username string
	Admin    bool
}

// Decision bir kayda verilen terminal karar.
type Decision struct {
	Outcome models.ApprovalStatus
	Actor   string
	ActorID uint
	Reason  string
	At      time.Time
}

func (d Decision) validate() error {
	if d.Outcome != models.ApprovalApproved && d.Outcome != models.ApprovalRejected {
		return workitem.Validationf("karar approved veya rejected olmalı, gelen %q", d.Outcome)
	}
	if d.Actor == "" {
		return workitem.Validationf("karar veren kullanıcı boş olamaz")
	}
	return nil
}
