package migration

import (
	"context"
	"fmt"
	"time"

	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/notify"
	"bakim-takip-backend/internal/workitem"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Request struct {
	SourcePeriod models.Period
	TargetPeriod models.Period
	StartDate    time.Time
	EndDate      time.Time // dahil
	UserID       uint
	UserName     string
}

type Result struct {
	MovedCount int    `json:"movedCount"`
	BatchID    string `json:"batchId,omitempty"`
}

func (r Request) validate() error {
	if !r.SourcePeriod.Valid() {
		return workitem.Validationf("geçersiz kaynak dönem %q", r.SourcePeriod)
	}
	if !r.TargetPeriod.Valid() {
		return workitem.Validationf("geçersiz hedef dönem %q", r.TargetPeriod)
	}
	if r.SourcePeriod == r.TargetPeriod {
		return workitem.Validationf("kaynak ve hedef dönem aynı olamaz")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return workitem.Validationf("başlangıç ve bitiş tarihi zorunlu")
	}
	if r.StartDate.After(r.EndDate) {
		return workitem.Validationf("başlangıç tarihi bitiş tarihinden sonra olamaz")
	}
	return nil
}

// Engine kontrol kalemlerini dönemler arasında taşır. Taşıma yerinde
// period alanını değiştirir; id, tarih ve içerik korunur.
type Engine struct {
	db        *gorm.DB
	metrics   *metrics.Metrics
	publisher notify.Publisher
	log       logrus.FieldLogger
}

func NewEngine(db *gorm.DB, m *metrics.Metrics, pub notify.Publisher, log logrus.FieldLogger) *Engine {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &Engine{db: db, metrics: m, publisher: pub, log: log}
}

// Migrate aralıktaki tüm kaynak dönem kalemlerini tek bir transaction içinde
// hedef döneme taşır. Ya hepsi taşınır ya hiçbiri.
func (e *Engine) Migrate(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	start := workitem.Today(req.StartDate)
	end := workitem.Today(req.EndDate).AddDate(0, 0, 1)
	batchID := uuid.NewString()

	var moved []uint
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.ControlItem{}).
			Where("period = ? AND date >= ? AND date < ?", req.SourcePeriod, start, end)
		if workitem.SupportsRowLocks(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Order("id").Pluck("id", &moved).Error; err != nil {
			return workitem.StorageError("taşınacak kalemler okunamadı", err)
		}
		if len(moved) == 0 {
			return nil
		}

		res := tx.Model(&models.ControlItem{}).
			Where("id IN ? AND period = ?", moved, req.SourcePeriod).
			Update("period", req.TargetPeriod)
		if res.Error != nil {
			return workitem.StorageError("kalemler taşınamadı", res.Error)
		}
		if res.RowsAffected != int64(len(moved)) {
			return workitem.StorageError("kalemler taşınamadı",
				fmt.Errorf("%d kalem seçildi, %d kalem güncellendi", len(moved), res.RowsAffected))
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:     req.UserID,
			UserName:   req.UserName,
			EntityType: string(workitem.KindControl),
			Action:     models.AuditActionMove,
			Description: fmt.Sprintf("%d kalem %s → %s taşındı (%s - %s)", len(moved),
				req.SourcePeriod, req.TargetPeriod,
				req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")),
			Before: map[string]any{"period": req.SourcePeriod, "ids": moved},
			After:  map[string]any{"period": req.TargetPeriod, "ids": moved, "batchId": batchID},
		})
	})
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"source": req.SourcePeriod,
			"target": req.TargetPeriod,
		}).Error("Dönem taşıma geri alındı")
		return Result{}, err
	}

	if len(moved) == 0 {
		return Result{}, nil
	}

	e.metrics.AddMigrated(string(req.SourcePeriod), string(req.TargetPeriod), len(moved))

	ev := notify.Event{
		Type:       notify.EventMoved,
		Actor:      req.UserName,
		Source:     string(req.SourcePeriod),
		Target:     string(req.TargetPeriod),
		MovedCount: len(moved),
		BatchID:    batchID,
		At:         time.Now(),
	}
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.log.WithError(err).WithField("batch_id", batchID).Warn("Taşıma olayı yayınlanamadı")
	}

	e.log.WithFields(logrus.Fields{
		"batch_id": batchID,
		"source":   req.SourcePeriod,
		"target":   req.TargetPeriod,
		"moved":    len(moved),
	}).Info("Dönem taşıma tamamlandı")

	return Result{MovedCount: len(moved), BatchID: batchID}, nil
}
