package approval

import (
	"context"
	"fmt"
	"time"

	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

// adapter bir türün onay akışına nasıl katıldığını tarif eder.
type adapter interface {
	Kind() workitem.Kind
	Pending(ctx context.Context, db *gorm.DB, v Viewer) ([]PendingItem, error)
	Resolve(tx *gorm.DB, id uint, d Decision) error
}

type typedAdapter[T any] struct {
	spec workitem.StoreSpec
	// ready approval_status = pending dışındaki hazır olma koşulu
	ready     func(q *gorm.DB) *gorm.DB
	normalize func(rec *T) PendingItem
}

func (a typedAdapter[T]) Kind() workitem.Kind { return a.spec.Kind }

func (a typedAdapter[T]) Pending(ctx context.Context, db *gorm.DB, v Viewer) ([]PendingItem, error) {
	q := db.WithContext(ctx).Model(new(T)).Where("approval_status = ?", models.ApprovalPending)
	if a.ready != nil {
		q = a.ready(q)
	}
	if !v.Admin {
		q = q.Where(a.spec.OwnerColumn+" = ?", v.Username)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, workitem.StorageError(fmt.Sprintf("%s onay kuyruğu okunamadı", a.spec.Kind), err)
	}

	items := make([]PendingItem, 0, len(rows))
	for i := range rows {
		item := a.normalize(&rows[i])
		item.Type = a.spec.Kind
		item.ID = workitem.NewRef(a.spec.Kind, item.DisplayID).String()
		items = append(items, item)
	}
	return items, nil
}

// Resolve kararı tek bir koşullu UPDATE ile yazar. Satır pending değilse
// hiçbir şey değişmez.
func (a typedAdapter[T]) Resolve(tx *gorm.DB, id uint, d Decision) error {
	res := tx.Model(new(T)).
		Where("id = ? AND approval_status = ?", id, models.ApprovalPending).
		Updates(map[string]any{
			"approval_status":  d.Outcome,
			"approved_by":      d.Actor,
			"approved_at":      d.At,
			"rejection_reason": d.Reason,
		})
	if res.Error != nil {
		return workitem.StorageError(fmt.Sprintf("%s kararı yazılamadı", a.spec.Kind), res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return workitem.StorageError(fmt.Sprintf("%s okunamadı", a.spec.Kind), err)
	}
	ref := workitem.NewRef(a.spec.Kind, id)
	if count == 0 {
		return fmt.Errorf("%w: %s", workitem.ErrNotFound, ref)
	}
	return fmt.Errorf("%w: %s", workitem.ErrNotAwaitingApproval, ref)
}

func orDate(completion *time.Time, date time.Time) time.Time {
	if completion != nil {
		return *completion
	}
	return date
}

var adapters = map[workitem.Kind]adapter{
	workitem.KindControl: typedAdapter[models.ControlItem]{
		spec: workitem.ControlSpec,
		normalize: func(r *models.ControlItem) PendingItem {
			return PendingItem{
				DisplayID:      r.ID,
				Title:          r.Title,
				WorkDone:       r.WorkDone,
				Period:         r.Period,
				FacilityID:     r.FacilityID,
				AssignedUser:   r.AssignedUser,
				Status:         r.Status,
				ApprovalStatus: r.ApprovalStatus,
				CompletionDate: orDate(r.CompletionDate, r.Date),
			}
		},
	},
	workitem.KindYBS: typedAdapter[models.YBSWorkItem]{
		spec: workitem.YBSSpec,
		ready: func(q *gorm.DB) *gorm.DB {
			return q.Where("status = ?", models.YBSStatusCompleted)
		},
		normalize: func(r *models.YBSWorkItem) PendingItem {
			return PendingItem{
				DisplayID:      r.ID,
				Title:          r.Title,
				WorkDone:       r.Description,
				Period:         r.Period,
				FacilityID:     r.FacilityID,
				AssignedUser:   r.AssignedUser,
				Status:         r.Status,
				ApprovalStatus: r.ApprovalStatus,
				CompletionDate: orDate(r.CompletionDate, r.Date),
			}
		},
	},
	workitem.KindBagTV: typedAdapter[models.BagTVControl]{
		spec: workitem.BagTVSpec,
		normalize: func(r *models.BagTVControl) PendingItem {
			return PendingItem{
				DisplayID:      r.ID,
				Title:          r.ControlPoint,
				WorkDone:       r.Notes,
				FacilityID:     r.FacilityID,
				AssignedUser:   r.ControlledBy,
				Status:         r.Status,
				ApprovalStatus: r.ApprovalStatus,
				CompletionDate: r.Date,
			}
		},
	},
	workitem.KindMessage: typedAdapter[models.Message]{
		spec: workitem.MessageSpec,
		normalize: func(r *models.Message) PendingItem {
			return PendingItem{
				DisplayID:      r.ID,
				Title:          r.Subject,
				WorkDone:       r.Content,
				FacilityID:     r.FacilityID,
				AssignedUser:   r.Sender,
				Status:         r.Status,
				ApprovalStatus: r.ApprovalStatus,
				CompletionDate: r.SentAt,
			}
		},
	},
}
