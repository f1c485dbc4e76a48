package workitem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakim-takip-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreSpec bir türün tablo düzenini tarif eder.
type StoreSpec struct {
	Kind        Kind
	OwnerColumn string // kaydın sahibi/göndereni
	DateColumn  string // listeleme sırası ve tarih filtresi
	HasPeriod   bool
}

var (
	ControlSpec = StoreSpec{Kind: KindControl, OwnerColumn: "assigned_user", DateColumn: "date", HasPeriod: true}
	YBSSpec     = StoreSpec{Kind: KindYBS, OwnerColumn: "assigned_user", DateColumn: "date", HasPeriod: true}
	BagTVSpec   = StoreSpec{Kind: KindBagTV, OwnerColumn: "controlled_by", DateColumn: "date"}
	MessageSpec = StoreSpec{Kind: KindMessage, OwnerColumn: "sender", DateColumn: "sent_at"}
)

// Filter List için opsiyonel kriterler; sıfır değerler filtre uygulamaz.
type Filter struct {
	Period         models.Period
	User           string
	FacilityID     *uint
	Status         string
	ApprovalStatus *models.ApprovalStatus
	From           *time.Time
	To             *time.Time // dahil
}

// ApprovalColumns onay akışı kapalı bir türde yazılmayan kolonlar. Eski
// şemalarda bu kolonlar hiç bulunmayabilir.
var ApprovalColumns = []string{"approval_status", "approved_by", "approved_at", "rejection_reason"}

// Store tek bir kayıt türü için kalıcı depolama.
type Store[T any] struct {
	db   *gorm.DB
	spec StoreSpec
	omit []string
}

func NewStore[T any](db *gorm.DB, spec StoreSpec) *Store[T] {
	return &Store[T]{db: db, spec: spec}
}

// Omitting yazma işlemlerinde verilen kolonları atlayan bir kopya döner.
func (s *Store[T]) Omitting(cols ...string) *Store[T] {
	cp := *s
	cp.omit = append(append([]string(nil), s.omit...), cols...)
	return &cp
}

// List kayıtları en yeni tarihten eskiye doğru döner. Sonuç yoksa boş dilim.
func (s *Store[T]) List(ctx context.Context, f Filter) ([]T, error) {
	q := s.db.WithContext(ctx).Model(new(T))

	if f.Period != "" && s.spec.HasPeriod {
		q = q.Where("period = ?", f.Period)
	}
	if f.User != "" {
		q = q.Where(s.spec.OwnerColumn+" = ?", f.User)
	}
	if f.FacilityID != nil {
		q = q.Where("facility_id = ?", *f.FacilityID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ApprovalStatus != nil {
		q = q.Where("approval_status = ?", *f.ApprovalStatus)
	}
	if f.From != nil {
		q = q.Where(s.spec.DateColumn+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(s.spec.DateColumn+" < ?", f.To.AddDate(0, 0, 1))
	}

	items := make([]T, 0)
	if err := q.Order(s.spec.DateColumn + " DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, StorageError(fmt.Sprintf("%s listelenemedi", s.spec.Kind), err)
	}
	return items, nil
}

func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	return s.get(s.db.WithContext(ctx), id)
}

// GetForUpdate Get gibidir; satır kilidi destekleyen lehçelerde satırı
// transaction sonuna kadar kilitler. Bir transaction içinde çağrılmalıdır.
func (s *Store[T]) GetForUpdate(ctx context.Context, id uint) (*T, error) {
	q := s.db.WithContext(ctx)
	if SupportsRowLocks(s.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return s.get(q, id)
}

func (s *Store[T]) get(q *gorm.DB, id uint) (*T, error) {
	rec := new(T)
	if err := q.First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s_%d", ErrNotFound, s.spec.Kind, id)
		}
		return nil, StorageError(fmt.Sprintf("%s okunamadı", s.spec.Kind), err)
	}
	return rec, nil
}

func (s *Store[T]) Create(ctx context.Context, rec *T) error {
	q := s.db.WithContext(ctx)
	if len(s.omit) > 0 {
		q = q.Omit(s.omit...)
	}
	if err := q.Create(rec).Error; err != nil {
		return StorageError(fmt.Sprintf("%s oluşturulamadı", s.spec.Kind), err)
	}
	return nil
}

// Save mevcut bir kaydın tüm alanlarını yazar. Kayıt yoksa ErrNotFound.
func (s *Store[T]) Save(ctx context.Context, rec *T) error {
	omit := append([]string{"id", "created_at"}, s.omit...)
	res := s.db.WithContext(ctx).Model(rec).Select("*").Omit(omit...).Updates(rec)
	if res.Error != nil {
		return StorageError(fmt.Sprintf("%s güncellenemedi", s.spec.Kind), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, s.spec.Kind)
	}
	return nil
}

// SaveIfApproval Save gibidir ama satırı yalnızca onay durumu hâlâ was ise
// yazar. Arada verilmiş bir onay kararı ErrNotAwaitingApproval ile korunur.
func (s *Store[T]) SaveIfApproval(ctx context.Context, rec *T, was models.ApprovalStatus) error {
	omit := append([]string{"id", "created_at"}, s.omit...)
	q := s.db.WithContext(ctx).Model(rec)
	if was == models.ApprovalNone {
		q = q.Where("(approval_status = ? OR approval_status IS NULL)", was)
	} else {
		q = q.Where("approval_status = ?", was)
	}
	res := q.Select("*").Omit(omit...).Updates(rec)
	if res.Error != nil {
		return StorageError(fmt.Sprintf("%s güncellenemedi", s.spec.Kind), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s onay durumu değişmiş", ErrNotAwaitingApproval, s.spec.Kind)
	}
	return nil
}

// Delete kaydı kalıcı olarak siler.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return StorageError(fmt.Sprintf("%s silinemedi", s.spec.Kind), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s_%d", ErrNotFound, s.spec.Kind, id)
	}
	return nil
}

// SupportsRowLocks SELECT ... FOR UPDATE desteklenen lehçeler için true döner.
func SupportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
