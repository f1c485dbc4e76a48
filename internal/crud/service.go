// Package crud iş kalemi türleri için audit kayıtlı ortak oluşturma,
// güncelleme ve silme işlemlerini sağlar.
package crud

import (
	"context"
	"encoding/json"
	"fmt"

	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

// Actor değişikliği yapan kullanıcı.
type Actor struct {
	ID   uint
	Name string
}

// Service her yazma işlemini audit kaydıyla aynı transaction içinde yapar.
type Service[T any] struct {
	db    *gorm.DB
	spec  workitem.StoreSpec
	omit  []string
	id    func(*T) uint
	label func(*T) string
}

func New[T any](db *gorm.DB, spec workitem.StoreSpec, id func(*T) uint, label func(*T) string) *Service[T] {
	return &Service[T]{db: db, spec: spec, id: id, label: label}
}

// WithoutApproval onay kolonlarını yazmayan bir kopya döner.
func (s *Service[T]) WithoutApproval() *Service[T] {
	cp := *s
	cp.omit = workitem.ApprovalColumns
	return &cp
}

func (s *Service[T]) store(db *gorm.DB) *workitem.Store[T] {
	st := workitem.NewStore[T](db, s.spec)
	if len(s.omit) > 0 {
		st = st.Omitting(s.omit...)
	}
	return st
}

func (s *Service[T]) List(ctx context.Context, f workitem.Filter) ([]T, error) {
	return s.store(s.db).List(ctx, f)
}

func (s *Service[T]) Get(ctx context.Context, id uint) (*T, error) {
	return s.store(s.db).Get(ctx, id)
}

func (s *Service[T]) Create(ctx context.Context, actor Actor, rec *T) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.store(tx).Create(ctx, rec); err != nil {
			return err
		}
		return s.log(tx, actor, models.AuditActionCreate, rec, "oluşturuldu", nil, rec)
	})
}

// Update kaydı okur, apply ile değiştirir ve yazar. apply hata dönerse
// hiçbir şey yazılmaz.
func (s *Service[T]) Update(ctx context.Context, actor Actor, id uint, apply func(rec *T) error) (*T, error) {
	var out *T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.store(tx)
		rec, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before, err := json.Marshal(rec)
		if err != nil {
			return workitem.StorageError("önceki hal okunamadı", err)
		}
		prev, approvable := approvalOf(rec)

		if err := apply(rec); err != nil {
			return err
		}

		// Onay kolonları yalnızca apply onları değiştirdiyse ve satır hâlâ
		// okunan onay durumundaysa yazılır.
		switch next, _ := approvalOf(rec); {
		case !approvable || len(s.omit) > 0:
			err = st.Save(ctx, rec)
		case next == prev:
			err = st.Omitting(workitem.ApprovalColumns...).Save(ctx, rec)
		default:
			err = st.SaveIfApproval(ctx, rec, prev)
		}
		if err != nil {
			return err
		}
		out = rec
		return s.log(tx, actor, models.AuditActionUpdate, rec, "güncellendi", json.RawMessage(before), rec)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service[T]) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.store(tx)
		rec, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := st.Delete(ctx, id); err != nil {
			return err
		}
		return s.log(tx, actor, models.AuditActionDelete, rec, "silindi", rec, nil)
	})
}

func (s *Service[T]) log(tx *gorm.DB, actor Actor, action models.AuditAction, rec *T, verb string, before, after any) error {
	id := s.id(rec)
	return audit.WriteLog(tx, audit.LogOptions{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  string(s.spec.Kind),
		EntityID:    id,
		Action:      action,
		Description: fmt.Sprintf("%s %s: %s", workitem.NewRef(s.spec.Kind, id), verb, s.label(rec)),
		Before:      before,
		After:       after,
	})
}

func approvalOf(rec any) (models.ApprovalStatus, bool) {
	a, ok := rec.(models.Approvable)
	if !ok {
		return models.ApprovalNone, false
	}
	return a.ApprovalState(), true
}
