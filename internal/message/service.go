package message

import (
	"context"
	"slices"
	"strings"
	"time"

	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

type Input struct {
	FacilityID *uint      `json:"facilityId"`
	Sender     *string    `json:"sender"`
	Recipient  *string    `json:"recipient"`
	Subject    *string    `json:"subject"`
	Content    *string    `json:"content"`
	SentAt     *time.Time `json:"sentAt"`
	Status     *string    `json:"status"` // queued | sent | failed
}

var statuses = []string{models.MessageStatusQueued, models.MessageStatusSent, models.MessageStatusFailed}

// Service mesaj gönderim kayıtları. Gönderimin kendisi dış servistedir.
// Onay akışı açıksa her kayıt pending olarak oluşur.
type Service struct {
	items     *crud.Service[models.Message]
	approvals bool
	now       func() time.Time
}

func NewService(db *gorm.DB, caps workitem.Capabilities) *Service {
	items := crud.New(db, workitem.MessageSpec,
		func(r *models.Message) uint { return r.ID },
		func(r *models.Message) string { return r.Subject })
	approvals := caps.Enabled(workitem.KindMessage)
	if !approvals {
		items = items.WithoutApproval()
	}
	return &Service{items: items, approvals: approvals, now: time.Now}
}

func (s *Service) List(ctx context.Context, f workitem.Filter) ([]models.Message, error) {
	return s.items.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.items.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor crud.Actor, in Input) (*models.Message, error) {
	rec := &models.Message{
		Sender: actor.Name,
		SentAt: s.now(),
		Status: models.MessageStatusSent,
	}
	if s.approvals {
		rec.ApprovalStatus = models.ApprovalPending
	}
	if err := apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, actor, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, actor crud.Actor, id uint, in Input) (*models.Message, error) {
	return s.items.Update(ctx, actor, id, func(rec *models.Message) error {
		return apply(rec, in)
	})
}

func (s *Service) Delete(ctx context.Context, actor crud.Actor, id uint) error {
	return s.items.Delete(ctx, actor, id)
}

func apply(rec *models.Message, in Input) error {
	if in.FacilityID != nil {
		rec.FacilityID = in.FacilityID
	}
	if in.Sender != nil {
		rec.Sender = strings.TrimSpace(*in.Sender)
	}
	if in.Recipient != nil {
		rec.Recipient = strings.TrimSpace(*in.Recipient)
	}
	if in.Subject != nil {
		rec.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Content != nil {
		rec.Content = *in.Content
	}
	if in.SentAt != nil {
		rec.SentAt = *in.SentAt
	}
	if in.Status != nil {
		st := strings.TrimSpace(*in.Status)
		if !slices.Contains(statuses, st) {
			return workitem.Validationf("geçersiz mesaj durumu %q", st)
		}
		rec.Status = st
	}

	if rec.Sender == "" {
		return workitem.Validationf("gönderen zorunlu")
	}
	if rec.Content == "" && rec.Subject == "" {
		return workitem.Validationf("konu veya içerik zorunlu")
	}
	return nil
}
