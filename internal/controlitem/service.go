package controlitem

import (
	"context"
	"strings"
	"time"

	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

// Input oluşturma ve güncelleme için ortak gövde. Güncellemede nil alanlar
// değiştirilmez. Onay alanları burada yoktur; sadece onay akışı yazar.
type Input struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	WorkDone       *string        `json:"workDone"`
	Period         *models.Period `json:"period"`
	Date           *string        `json:"date"`           // "2024-01-31"
	CompletionDate *string        `json:"completionDate"` // opsiyonel
	FacilityID     *uint          `json:"facilityId"`
	AssignedUser   *string        `json:"assignedUser"`
	Status         *string        `json:"status"`
}

type Service struct {
	items *crud.Service[models.ControlItem]
	vocab workitem.Vocabulary
	now   func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		items: crud.New(db, workitem.ControlSpec,
			func(r *models.ControlItem) uint { return r.ID },
			func(r *models.ControlItem) string { return r.Title }),
		vocab: workitem.ControlVocabulary,
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context, f workitem.Filter) ([]models.ControlItem, error) {
	return s.items.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.ControlItem, error) {
	return s.items.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor crud.Actor, in Input) (*models.ControlItem, error) {
	if in.Status == nil {
		st := s.vocab.Pending
		in.Status = &st
	}

	rec := &models.ControlItem{}
	if err := s.apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, actor, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, actor crud.Actor, id uint, in Input) (*models.ControlItem, error) {
	return s.items.Update(ctx, actor, id, func(rec *models.ControlItem) error {
		return s.apply(rec, in)
	})
}

func (s *Service) Delete(ctx context.Context, actor crud.Actor, id uint) error {
	return s.items.Delete(ctx, actor, id)
}

func (s *Service) apply(rec *models.ControlItem, in Input) error {
	if in.Title != nil {
		rec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.WorkDone != nil {
		rec.WorkDone = *in.WorkDone
	}
	if in.Period != nil {
		if !in.Period.Valid() {
			return workitem.Validationf("geçersiz dönem %q", *in.Period)
		}
		rec.Period = *in.Period
	}
	if in.Date != nil {
		d, err := workitem.ParseDate(strings.TrimSpace(*in.Date))
		if err != nil {
			return err
		}
		rec.Date = d
	}
	if in.FacilityID != nil {
		rec.FacilityID = in.FacilityID
	}
	if in.AssignedUser != nil {
		rec.AssignedUser = strings.TrimSpace(*in.AssignedUser)
	}

	completion, err := workitem.ParseOptionalDate(in.CompletionDate)
	if err != nil {
		return err
	}

	if in.Status != nil {
		next, err := s.vocab.Transition(workitem.State{
			Status:         rec.Status,
			ApprovalStatus: rec.ApprovalStatus,
			CompletionDate: rec.CompletionDate,
		}, strings.TrimSpace(*in.Status), completion, s.now())
		if err != nil {
			return err
		}
		rec.Status = next.Status
		rec.ApprovalStatus = next.ApprovalStatus
		rec.CompletionDate = next.CompletionDate
	} else if completion != nil {
		rec.CompletionDate = completion
	}

	switch {
	case rec.Title == "":
		return workitem.Validationf("başlık zorunlu")
	case !rec.Period.Valid():
		return workitem.Validationf("dönem zorunlu")
	case rec.Date.IsZero():
		return workitem.Validationf("tarih zorunlu")
	}
	return nil
}
