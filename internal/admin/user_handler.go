package admin

import (
	"strings"

	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Username string          `json:"username" validate:"required,min=3,max=100"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=admin operator"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ----------------------------------------
// KULLANICI OLUŞTURMA
// POST /api/admin/users
// ----------------------------------------

func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		body.Username = auth.NormalizeUsername(body.Username)
		body.Name = strings.TrimSpace(body.Name)
		if body.Role == "" {
			body.Role = models.RoleOperator
		}

		var exist int64
		db.Model(&models.User{}).Where("username = ?", body.Username).Count(&exist)
		if exist > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kullanıcı adı zaten kayıtlı")
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Name:         body.Name,
			Username:     body.Username,
			PasswordHash: hash,
			Role:         body.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Username:  user.Username,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/users
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, UserResponse{
				ID:        u.ID,
				Name:      u.Name,
				Username:  u.Username,
				Role:      string(u.Role),
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
