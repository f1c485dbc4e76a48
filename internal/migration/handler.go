package migration

import (
	"fmt"

	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
)

type MoveRequest struct {
	SourcePeriod models.Period `json:"sourcePeriod" validate:"required"`
	TargetPeriod models.Period `json:"targetPeriod" validate:"required"`
	StartDate    string        `json:"startDate" validate:"required"`
	EndDate      string        `json:"endDate" validate:"required"`
}

// POST /api/control-items/move
func MoveHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body MoveRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		start, err := workitem.ParseDate(body.StartDate)
		if err != nil {
			return httpx.Error(err)
		}
		end, err := workitem.ParseDate(body.EndDate)
		if err != nil {
			return httpx.Error(err)
		}

		res, err := engine.Migrate(c.UserContext(), Request{
			SourcePeriod: body.SourcePeriod,
			TargetPeriod: body.TargetPeriod,
			StartDate:    start,
			EndDate:      end,
			UserID:       me.ID,
			UserName:     me.Username,
		})
		if err != nil {
			return httpx.Error(err)
		}

		return c.JSON(fiber.Map{
			"message":    fmt.Sprintf("%d kalem %s döneminden %s dönemine taşındı", res.MovedCount, body.SourcePeriod, body.TargetPeriod),
			"movedCount": res.MovedCount,
			"batchId":    res.BatchID,
		})
	}
}
