package admin

import (
	"errors"
	"strings"

	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FacilityResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateFacilityRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Address string  `json:"address" validate:"max=255"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type UpdateFacilityRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

func toFacilityResponse(f models.Facility) FacilityResponse {
	return FacilityResponse{
		ID:        f.ID,
		Name:      f.Name,
		Address:   f.Address,
		Phone:     f.Phone,
		CreatedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func logFacility(db *gorm.DB, c *fiber.Ctx, action models.AuditAction, f models.Facility, desc string) {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return
	}
	_ = audit.WriteLog(db, audit.LogOptions{
		UserID:      me.ID,
		UserName:    me.Username,
		EntityType:  "facility",
		EntityID:    f.ID,
		Action:      action,
		Description: desc,
		After:       f,
	})
}

// ----------------------------------------
// TESİS CRUD
// ----------------------------------------

func CreateFacilityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFacilityRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tesis adı boş olamaz")
		}

		facility := models.Facility{
			Name:    body.Name,
			Address: body.Address,
		}
		if body.Phone != nil {
			facility.Phone = strings.TrimSpace(*body.Phone)
		}

		var exist int64
		db.Model(&models.Facility{}).Where("name = ?", facility.Name).Count(&exist)
		if exist > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir tesis zaten var")
		}

		if err := db.Create(&facility).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tesis oluşturulamadı")
		}
		logFacility(db, c, models.AuditActionCreate, facility, "Tesis oluşturuldu: "+facility.Name)

		return c.Status(fiber.StatusCreated).JSON(toFacilityResponse(facility))
	}
}

// GET /api/facilities ve /api/admin/facilities
func ListFacilitiesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var facilities []models.Facility
		if err := db.Order("name").Find(&facilities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tesisler listelenemedi")
		}

		res := make([]FacilityResponse, 0, len(facilities))
		for _, f := range facilities {
			res = append(res, toFacilityResponse(f))
		}
		return c.JSON(res)
	}
}

func GetFacilityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var facility models.Facility
		if err := db.First(&facility, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tesis bulunamadı")
		}
		return c.JSON(toFacilityResponse(facility))
	}
}

func UpdateFacilityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var facility models.Facility
		if err := db.First(&facility, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tesis bulunamadı")
		}

		var body UpdateFacilityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Tesis adı boş olamaz")
			}
			facility.Name = name
		}
		if body.Address != nil {
			facility.Address = *body.Address
		}
		if body.Phone != nil {
			facility.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := db.Save(&facility).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tesis güncellenemedi")
		}
		logFacility(db, c, models.AuditActionUpdate, facility, "Tesis güncellendi: "+facility.Name)

		return c.JSON(toFacilityResponse(facility))
	}
}

// DeleteFacilityHandler tesise bağlı iş kalemi varken silmeyi reddeder.
func DeleteFacilityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var facility models.Facility
		if err := db.First(&facility, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tesis bulunamadı")
			}
			return httpx.Error(workitem.StorageError("tesis okunamadı", err))
		}

		for _, kind := range workitem.Kinds {
			var n int64
			if err := db.Table(kind.Table()).Where("facility_id = ?", id).Count(&n).Error; err != nil {
				return httpx.Error(workitem.StorageError("tesis kayıtları sayılamadı", err))
			}
			if n > 0 {
				return fiber.NewError(fiber.StatusConflict, "Tesise bağlı kayıtlar var, önce onları taşıyın veya silin")
			}
		}

		if err := db.Delete(&models.Facility{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tesis silinemedi")
		}
		logFacility(db, c, models.AuditActionDelete, facility, "Tesis silindi: "+facility.Name)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
