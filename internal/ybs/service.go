package ybs

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
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Period         *models.Period `json:"period"`
	Date           *string        `json:"date"`
	CompletionDate *string        `json:"completionDate"`
	FacilityID     *uint          `json:"facilityId"`
	AssignedUser   *string        `json:"assignedUser"`
	Status         *string        `json:"status"` // pending | in_progress | completed | rejected
}

// Service YBS iş kalemleri. Kalemler pending onay durumuyla oluşur fakat
// kuyruğa ancak status completed olduğunda düşer.
type Service struct {
	items *crud.Service[models.YBSWorkItem]
	vocab workitem.Vocabulary
	now   func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		items: crud.New(db, workitem.YBSSpec,
			func(r *models.YBSWorkItem) uint { return r.ID },
			func(r *models.YBSWorkItem) string { return r.Title }),
		vocab: workitem.YBSVocabulary,
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context, f workitem.Filter) ([]models.YBSWorkItem, error) {
	return s.items.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.YBSWorkItem, error) {
	return s.items.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor crud.Actor, in Input) (*models.YBSWorkItem, error) {
	if in.Status == nil {
		st := s.vocab.Pending
		in.Status = &st
	}

	rec := &models.YBSWorkItem{ApprovalStatus: models.ApprovalPending}
	if err := s.apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, actor, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, actor crud.Actor, id uint, in Input) (*models.YBSWorkItem, error) {
	return s.items.Update(ctx, actor, id, func(rec *models.YBSWorkItem) error {
		return s.apply(rec, in)
	})
}

func (s *Service) Delete(ctx context.Context, actor crud.Actor, id uint) error {
	return s.items.Delete(ctx, actor, id)
}

func (s *Service) apply(rec *models.YBSWorkItem, in Input) error {
	if in.Title != nil {
		rec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Period != nil {
		if *in.Period != "" && !in.Period.Valid() {
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

	if rec.Title == "" {
		return workitem.Validationf("başlık zorunlu")
	}
	if rec.Date.IsZero() {
		return workitem.Validationf("tarih zorunlu")
	}
	return nil
}
