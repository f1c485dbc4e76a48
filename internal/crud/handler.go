package crud

import (
	"context"

	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
)

// Resource bir iş kalemi türünün HTTP üzerinden açılan işlemleri.
type Resource[T any, In any] interface {
	List(ctx context.Context, f workitem.Filter) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, actor Actor, in In) (*T, error)
	Update(ctx context.Context, actor Actor, id uint, in In) (*T, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

// Register listeleme, okuma, oluşturma, güncelleme ve silme route'larını
// bağlar. deleteGuard verilirse silmeden önce çalışır.
func Register[T any, In any](r fiber.Router, res Resource[T, In], deleteGuard ...fiber.Handler) {
	r.Get("/", ListHandler(res))
	r.Post("/", CreateHandler(res))
	r.Get("/:id", GetHandler(res))
	r.Put("/:id", UpdateHandler(res))
	r.Delete("/:id", append(deleteGuard, DeleteHandler(res))...)
}

func actorOf(c *fiber.Ctx) (Actor, error) {
	me, err := auth.CurrentUser(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: me.ID, Name: me.Username}, nil
}

// GET /?period=Haftalık&user=ali&from=2024-01-01&to=2024-01-31
func ListHandler[T any, In any](res Resource[T, In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := httpx.ListFilter(c)
		if err != nil {
			return err
		}
		items, err := res.List(c.UserContext(), f)
		if err != nil {
			return httpx.Error(err)
		}
		return c.JSON(items)
	}
}

// GET /:id
func GetHandler[T any, In any](res Resource[T, In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		item, err := res.Get(c.UserContext(), id)
		if err != nil {
			return httpx.Error(err)
		}
		return c.JSON(item)
	}
}

// POST /
func CreateHandler[T any, In any](res Resource[T, In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := actorOf(c)
		if err != nil {
			return err
		}
		var body In
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		item, err := res.Create(c.UserContext(), who, body)
		if err != nil {
			return httpx.Error(err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /:id
func UpdateHandler[T any, In any](res Resource[T, In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		who, err := actorOf(c)
		if err != nil {
			return err
		}
		var body In
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		item, err := res.Update(c.UserContext(), who, id, body)
		if err != nil {
			return httpx.Error(err)
		}
		return c.JSON(item)
	}
}

// DELETE /:id
func DeleteHandler[T any, In any](res Resource[T, In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		who, err := actorOf(c)
		if err != nil {
			return err
		}
		if err := res.Delete(c.UserContext(), who, id); err != nil {
			return httpx.Error(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
