package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"gorm.io/gorm"
)

var (
	ErrAlreadyUndone = errors.New("bu işlem zaten geri alınmış")
	ErrNotUndoable   = errors.New("bu işlem türü geri alınamaz")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog bir audit kaydı yazar. db bir transaction olabilir; bu durumda
// kayıt asıl değişiklikle birlikte commit/rollback olur.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, 255),
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&log).Error; err != nil {
		return workitem.StorageError("audit log kaydedilemedi", err)
	}
	return nil
}

// UndoLog bir create/update/delete kaydını geri alır ve bir undo kaydı yazar.
// Onay kararları ve dönem taşımaları geri alınamaz.
func UndoLog(db *gorm.DB, logID uint, userID uint, userName string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: log %d", workitem.ErrNotFound, logID)
			}
			return workitem.StorageError("log okunamadı", err)
		}

		if log.IsUndone {
			return ErrAlreadyUndone
		}

		kind, err := workitem.ParseKind(log.EntityType)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNotUndoable, log.EntityType)
		}
		ent, ok := entities[kind]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotUndoable, log.EntityType)
		}

		switch log.Action {
		case models.AuditActionCreate:
			if err := deleteEntity(tx, ent, log.EntityID); err != nil {
				return err
			}

		case models.AuditActionUpdate:
			if err := restoreEntity(tx, ent, log.EntityID, log.BeforeData); err != nil {
				return err
			}

		case models.AuditActionDelete:
			if err := recreateEntity(tx, ent, log.BeforeData); err != nil {
				return err
			}

		default:
			return ErrNotUndoable
		}

		now := time.Now()
		log.IsUndone = true
		log.UndoneBy = &userID
		log.UndoneAt = &now
		if err := tx.Save(&log).Error; err != nil {
			return workitem.StorageError("log güncellenemedi", err)
		}

		return WriteLog(tx, LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Geri alındı: %s", log.Description),
			Before:      json.RawMessage(log.AfterData),
			After:       json.RawMessage(log.BeforeData),
		})
	})
}

// entity bir türün undo sırasında nasıl yeniden oluşturulacağını tarif eder.
type entity struct {
	newModel func() any
	// contentColumns update geri alınırken yazılan kolonlar. Onay kolonları
	// bilerek dışarıda bırakılır; undo bir onay kararını değiştiremez.
	contentColumns []string
}

var entities = map[workitem.Kind]entity{
	workitem.KindControl: {
		newModel: func() any { return &models.ControlItem{} },
		contentColumns: []string{"title", "description", "work_done", "date",
			"completion_date", "facility_id", "assigned_user", "status"},
	},
	workitem.KindYBS: {
		newModel: func() any { return &models.YBSWorkItem{} },
		contentColumns: []string{"title", "description", "date",
			"completion_date", "facility_id", "assigned_user", "status"},
	},
	workitem.KindBagTV: {
		newModel:       func() any { return &models.BagTVControl{} },
		contentColumns: []string{"facility_id", "control_point", "notes", "date", "controlled_by", "status"},
	},
	workitem.KindMessage: {
		newModel:       func() any { return &models.Message{} },
		contentColumns: []string{"facility_id", "sender", "recipient", "subject", "content", "sent_at", "status"},
	},
}

// deleteEntity bir create kaydını geri alır. Karara bağlanmış kalemler
// silinemez.
func deleteEntity(tx *gorm.DB, ent entity, id uint) error {
	rec := ent.newModel()
	if err := tx.First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: kayıt %d", workitem.ErrNotFound, id)
		}
		return workitem.StorageError("kayıt okunamadı", err)
	}
	if a, ok := rec.(models.Approvable); ok && a.ApprovalState().Terminal() {
		return fmt.Errorf("%w: kayıt onay sürecinde karara bağlanmış", ErrNotUndoable)
	}

	res := tx.Delete(ent.newModel(), "id = ?", id)
	if res.Error != nil {
		return workitem.StorageError("kayıt silinemedi", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: kayıt %d", workitem.ErrNotFound, id)
	}
	return nil
}

func restoreEntity(tx *gorm.DB, ent entity, id uint, dataJSON string) error {
	rec := ent.newModel()
	if err := json.Unmarshal([]byte(dataJSON), rec); err != nil {
		return fmt.Errorf("%w: önceki hal okunamadı", workitem.ErrValidation)
	}

	res := tx.Model(ent.newModel()).Where("id = ?", id).Select(ent.contentColumns).Updates(rec)
	if res.Error != nil {
		return workitem.StorageError("kayıt geri yüklenemedi", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: kayıt %d", workitem.ErrNotFound, id)
	}
	return nil
}

func recreateEntity(tx *gorm.DB, ent entity, dataJSON string) error {
	rec := ent.newModel()
	if err := json.Unmarshal([]byte(dataJSON), rec); err != nil {
		return fmt.Errorf("%w: silinen kayıt okunamadı", workitem.ErrValidation)
	}
	// Aynı id ile geri oluşturulur; böylece eski bileşik kimlik yeniden geçerli olur.
	if err := tx.Create(rec).Error; err != nil {
		return workitem.StorageError("kayıt geri oluşturulamadı", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
