package audit

import (
	"errors"

	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=control&entity_id=1&user_id=2&action=approve
// Operatörler sadece kendi kayıtlarını görür.
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		dbq := db.WithContext(c.UserContext()).Model(&models.AuditLog{})

		if !me.IsAdmin() {
			dbq = dbq.Where("user_id = ?", me.ID)
		} else if userIDStr := c.Query("user_id"); userIDStr != "" {
			if uid, ok := httpx.ParseID(userIDStr); ok {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			if eid, ok := httpx.ParseID(entityIDStr); ok {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Order("id DESC").Limit(500).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			var undoneAtStr *string
			if log.UndoneAt != nil {
				formatted := log.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAtStr = &formatted
			}

			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      log.UserID,
				UserName:    log.UserName,
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
				IsUndone:    log.IsUndone,
				UndoneBy:    log.UndoneBy,
				UndoneAt:    undoneAtStr,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var log models.AuditLog
		if err := db.WithContext(c.UserContext()).First(&log, "id = ?", logID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Log bulunamadı")
		}

		// Admin her şeyi, operatör sadece kendi işlemini geri alabilir
		if !me.IsAdmin() && log.UserID != me.ID {
			return fiber.NewError(fiber.StatusForbidden, "Sadece kendi işlemlerinizi geri alabilirsiniz")
		}

		if err := UndoLog(db.WithContext(c.UserContext()), logID, me.ID, me.Username); err != nil {
			switch {
			case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return httpx.Error(err)
			}
		}

		return c.JSON(fiber.Map{
			"message": "İşlem başarıyla geri alındı",
		})
	}
}
