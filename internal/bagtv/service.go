package bagtv

import (
	"context"
	"strings"
	"time"

	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

type Input struct {
	FacilityID   *uint   `json:"facilityId"`
	ControlPoint *string `json:"controlPoint"`
	Notes        *string `json:"notes"`
	Date         *string `json:"date"`
	ControlledBy *string `json:"controlledBy"`
	Status       *string `json:"status"`
}

// Service BağTV kontrolleri. Kontrol kalemleriyle aynı durum etiketlerini
// kullanır; onay akışı açıksa Tamamlandı'ya geçen kayıt onaya düşer.
type Service struct {
	items     *crud.Service[models.BagTVControl]
	vocab     workitem.Vocabulary
	approvals bool
	now       func() time.Time
}

func NewService(db *gorm.DB, caps workitem.Capabilities) *Service {
	items := crud.New(db, workitem.BagTVSpec,
		func(r *models.BagTVControl) uint { return r.ID },
		func(r *models.BagTVControl) string { return r.ControlPoint })
	approvals := caps.Enabled(workitem.KindBagTV)
	if !approvals {
		items = items.WithoutApproval()
	}
	return &Service{items: items, vocab: workitem.ControlVocabulary, approvals: approvals, now: time.Now}
}

func (s *Service) List(ctx context.Context, f workitem.Filter) ([]models.BagTVControl, error) {
	return s.items.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.BagTVControl, error) {
	return s.items.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor crud.Actor, in Input) (*models.BagTVControl, error) {
	if in.Status == nil {
		st := s.vocab.Pending
		in.Status = &st
	}
	if in.ControlledBy == nil {
		in.ControlledBy = &actor.Name
	}

	rec := &models.BagTVControl{}
	if err := s.apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, actor, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, actor crud.Actor, id uint, in Input) (*models.BagTVControl, error) {
	return s.items.Update(ctx, actor, id, func(rec *models.BagTVControl) error {
		return s.apply(rec, in)
	})
}

func (s *Service) Delete(ctx context.Context, actor crud.Actor, id uint) error {
	return s.items.Delete(ctx, actor, id)
}

func (s *Service) apply(rec *models.BagTVControl, in Input) error {
	if in.FacilityID != nil {
		rec.FacilityID = in.FacilityID
	}
	if in.ControlPoint != nil {
		rec.ControlPoint = strings.TrimSpace(*in.ControlPoint)
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if in.Date != nil {
		d, err := workitem.ParseDate(strings.TrimSpace(*in.Date))
		if err != nil {
			return err
		}
		rec.Date = d
	}
	if in.ControlledBy != nil {
		rec.ControlledBy = strings.TrimSpace(*in.ControlledBy)
	}

	if in.Status != nil {
		next, err := s.vocab.Transition(workitem.State{
			Status:         rec.Status,
			ApprovalStatus: rec.ApprovalStatus,
		}, strings.TrimSpace(*in.Status), nil, s.now())
		if err != nil {
			return err
		}
		rec.Status = next.Status
		if s.approvals {
			rec.ApprovalStatus = next.ApprovalStatus
		}
	}

	if rec.ControlPoint == "" {
		return workitem.Validationf("kontrol noktası zorunlu")
	}
	if rec.Date.IsZero() {
		return workitem.Validationf("tarih zorunlu")
	}
	return nil
}
