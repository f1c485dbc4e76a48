package workitem

import (
	"strings"
	"time"

	"bakim-takip-backend/internal/models"
)

// Vocabulary bir türün dört durum etiketini tanımlar. Kontrol ve YBS
// kalemleri aynı dört durumlu makineyi farklı etiketlerle kullanır.
type Vocabulary struct {
	Pending    string
	InProgress string
	Completed  string
	NotDone    string
}

var (
	ControlVocabulary = Vocabulary{
		Pending:    models.ControlStatusPending,
		InProgress: models.ControlStatusInProgress,
		Completed:  models.ControlStatusCompleted,
		NotDone:    models.ControlStatusNotDone,
	}
	YBSVocabulary = Vocabulary{
		Pending:    models.YBSStatusPending,
		InProgress: models.YBSStatusInProgress,
		Completed:  models.YBSStatusCompleted,
		NotDone:    models.YBSStatusRejected,
	}
)

func (v Vocabulary) Statuses() []string {
	return []string{v.Pending, v.InProgress, v.Completed, v.NotDone}
}

func (v Vocabulary) Valid(status string) bool {
	for _, s := range v.Statuses() {
		if s == status {
			return true
		}
	}
	return false
}

// State durum makinesinin okuduğu ve yazdığı alanlar.
type State struct {
	Status         string
	ApprovalStatus models.ApprovalStatus
	CompletionDate *time.Time
}

// Transition kalemi açıkça verilen hedef duruma taşır. Her durumdan her
// duruma geçilebilir. Tamamlandı durumuna girişte onay durumu (terminal
// değilse) pending olur ve tamamlanma tarihi verilmemişse bugün atanır.
// Tamamlandı durumundan çıkış onay alanlarına dokunmaz.
func (v Vocabulary) Transition(cur State, next string, completion *time.Time, now time.Time) (State, error) {
	if !v.Valid(next) {
		return cur, Validationf("geçersiz durum %q", next)
	}

	out := cur
	out.Status = next
	if completion != nil {
		d := *completion
		out.CompletionDate = &d
	}

	if next == v.Completed && cur.Status != v.Completed {
		if !cur.ApprovalStatus.Terminal() {
			out.ApprovalStatus = models.ApprovalPending
		}
		if completion == nil {
			today := Today(now)
			out.CompletionDate = &today
		}
	}
	return out, nil
}

// Today now'un takvim gününü UTC gece yarısı olarak döner. Tüm iş tarihleri
// bu biçimde saklanır.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate "2006-01-02" biçimindeki tarihi çözer.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, Validationf("geçersiz tarih %q, beklenen biçim YYYY-AA-GG", s)
	}
	return t, nil
}

// ParseOptionalDate boş veya nil metin için nil döner.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}
