package models

// Period bir kontrol kaleminin tekrar periyodu.
type Period string

const (
	PeriodDaily   Period = "Günlük"
	PeriodWeekly  Period = "Haftalık"
	PeriodMonthly Period = "Aylık"
	PeriodYearly  Period = "Yıllık"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// ApprovalStatus onay akışındaki durum. Boş değer kalemin henüz onaya
// düşmediği anlamına gelir.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Approvable onay durumu taşıyan iş kalemleri.
type Approvable interface {
	ApprovalState() ApprovalStatus
}

// Terminal onaylanmış veya reddedilmiş kalemler için true döner.
func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// Kontrol kalemi durumları
const (
	ControlStatusPending    = "Beklemede"
	ControlStatusInProgress = "İşlemde"
	ControlStatusCompleted  = "Tamamlandı"
	ControlStatusNotDone    = "Yapılmadı"
)

// YBS iş kalemi durumları
const (
	YBSStatusPending    = "pending"
	YBSStatusInProgress = "in_progress"
	YBSStatusCompleted  = "completed"
	YBSStatusRejected   = "rejected"
)

// Mesaj gönderim durumları
const (
	MessageStatusQueued = "queued"
	MessageStatusSent   = "sent"
	MessageStatusFailed = "failed"
)
