package audit_test

import (
	"context"
	"testing"
	"time"

	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/migration"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/testutil"
	"bakim-takip-backend/internal/workitem"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *crud.Service[models.ControlItem], *models.ControlItem) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := crud.New(db, workitem.ControlSpec,
		func(r *models.ControlItem) uint { return r.ID },
		func(r *models.ControlItem) string { return r.Title })

	rec := &models.ControlItem{Title: "Asansör", Period: models.PeriodMonthly,
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: models.ControlStatusPending}
	require.NoError(t, svc.Create(context.Background(), crud.Actor{ID: 1, Name: "ali"}, rec))
	return db, svc, rec
}

func lastLog(t *testing.T, db *gorm.DB, action models.AuditAction) models.AuditLog {
	t.Helper()
	var log models.AuditLog
	require.NoError(t, db.Where("action = ?", action).Order("id DESC").First(&log).Error)
	return log
}

func TestUndoUpdateRestoresContentOnly(t *testing.T) {
	db, svc, rec := setup(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, crud.Actor{ID: 1, Name: "ali"}, rec.ID, func(r *models.ControlItem) error {
		r.Title = "Yanlış başlık"
		r.WorkDone = "x"
		return nil
	})
	require.NoError(t, err)

	// güncellemeden sonra verilen onay undo ile geri alınmamalı
	require.NoError(t, db.Model(&models.ControlItem{}).Where("id = ?", rec.ID).
		Update("approval_status", models.ApprovalApproved).Error)

	log := lastLog(t, db, models.AuditActionUpdate)
	require.NoError(t, audit.UndoLog(db, log.ID, 9, "admin"))

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asansör", got.Title)
	assert.Empty(t, got.WorkDone)
	assert.Equal(t, models.ApprovalApproved, got.ApprovalStatus)

	var undone models.AuditLog
	require.NoError(t, db.First(&undone, log.ID).Error)
	assert.True(t, undone.IsUndone)
	require.NotNil(t, undone.UndoneBy)
	assert.Equal(t, uint(9), *undone.UndoneBy)

	assert.ErrorIs(t, audit.UndoLog(db, log.ID, 9, "admin"), audit.ErrAlreadyUndone)
	lastUndo := lastLog(t, db, models.AuditActionUndo)
	assert.Equal(t, "admin", lastUndo.UserName)
}

func TestUndoDeleteRecreatesWithSameID(t *testing.T) {
	db, svc, rec := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, crud.Actor{ID: 1, Name: "ali"}, rec.ID))
	_, err := svc.Get(ctx, rec.ID)
	require.ErrorIs(t, err, workitem.ErrNotFound)

	log := lastLog(t, db, models.AuditActionDelete)
	require.NoError(t, audit.UndoLog(db, log.ID, 1, "ali"))

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asansör", got.Title)
	assert.Equal(t, models.PeriodMonthly, got.Period)
}

func TestUndoCreateDeletes(t *testing.T) {
	db, svc, rec := setup(t)

	log := lastLog(t, db, models.AuditActionCreate)
	require.NoError(t, audit.UndoLog(db, log.ID, 1, "ali"))

	_, err := svc.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, workitem.ErrNotFound)
}

func TestDecisionsAreNotUndoable(t *testing.T) {
	db, _, rec := setup(t)

	require.NoError(t, audit.WriteLog(db, audit.LogOptions{
		UserName: "admin", EntityType: "control", EntityID: rec.ID, Action: models.AuditActionApprove,
	}))
	log := lastLog(t, db, models.AuditActionApprove)
	assert.ErrorIs(t, audit.UndoLog(db, log.ID, 1, "admin"), audit.ErrNotUndoable)

	require.NoError(t, audit.WriteLog(db, audit.LogOptions{
		UserName: "admin", EntityType: "facility", EntityID: 1, Action: models.AuditActionCreate,
	}))
	log = lastLog(t, db, models.AuditActionCreate)
	assert.ErrorIs(t, audit.UndoLog(db, log.ID, 1, "admin"), audit.ErrNotUndoable)

	assert.ErrorIs(t, audit.UndoLog(db, 9999, 1, "admin"), workitem.ErrNotFound)
}

func TestUndoUpdateKeepsMigratedPeriod(t *testing.T) {
	db, svc, rec := setup(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, crud.Actor{ID: 1, Name: "ali"}, rec.ID, func(r *models.ControlItem) error {
		r.Title = "Asansör bakımı"
		return nil
	})
	require.NoError(t, err)
	updateLog := lastLog(t, db, models.AuditActionUpdate)

	log, _ := test.NewNullLogger()
	res, err := migration.NewEngine(db, metrics.New(nil), nil, log).Migrate(ctx, migration.Request{
		SourcePeriod: models.PeriodMonthly,
		TargetPeriod: models.PeriodYearly,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.MovedCount)

	require.NoError(t, audit.UndoLog(db, updateLog.ID, 1, "ali"))

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asansör", got.Title)
	assert.Equal(t, models.PeriodYearly, got.Period)
}

func TestUndoCreateRefusedAfterDecision(t *testing.T) {
	db, svc, rec := setup(t)
	require.NoError(t, db.Model(&models.ControlItem{}).Where("id = ?", rec.ID).
		Update("approval_status", models.ApprovalApproved).Error)

	log := lastLog(t, db, models.AuditActionCreate)
	assert.ErrorIs(t, audit.UndoLog(db, log.ID, 1, "ali"), audit.ErrNotUndoable)

	_, err := svc.Get(context.Background(), rec.ID)
	assert.NoError(t, err)
}

func TestUndoCreateOfMissingRow(t *testing.T) {
	db, _, rec := setup(t)
	require.NoError(t, db.Delete(&models.ControlItem{}, "id = ?", rec.ID).Error)

	log := lastLog(t, db, models.AuditActionCreate)
	assert.ErrorIs(t, audit.UndoLog(db, log.ID, 1, "ali"), workitem.ErrNotFound)

	var still models.AuditLog
	require.NoError(t, db.First(&still, log.ID).Error)
	assert.False(t, still.IsUndone)
}

func TestWriteLogStorageFailure(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.AuditLog{}))

	err := audit.WriteLog(db, audit.LogOptions{EntityType: "control", EntityID: 1, Action: models.AuditActionCreate})
	assert.ErrorIs(t, err, workitem.ErrStorage)
}
