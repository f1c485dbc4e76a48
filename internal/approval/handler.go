package approval

import (
	"strings"
	"time"

	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ApproveRequest struct {
	ApprovedBy string `json:"approvedBy"`
}

type RejectRequest struct {
	RejectedBy string `json:"rejectedBy"`
	Reason     string `json:"reason"`
}

type YBSApprovalRequest struct {
	ApprovalStatus  models.ApprovalStatus `json:"approvalStatus" validate:"required,oneof=approved rejected"`
	ApprovedBy      string                `json:"approvedBy"`
	ApprovedAt      *time.Time            `json:"approvedAt"`
	RejectionReason string                `json:"rejectionReason"`
}

// refParam yol parametresini çözer. Sadece rakamlardan oluşan id kontrol
// kalemi kabul edilir; diğerleri "{tür}_{id}" biçiminde olmalı.
func refParam(c *fiber.Ctx) (workitem.Ref, error) {
	raw := utils.CopyString(c.Params("id"))
	if raw != "" && strings.Trim(raw, "0123456789") == "" {
		return workitem.Ref{Kind: workitem.KindControl, ID: raw}, nil
	}
	return workitem.ParseRef(raw)
}

func actorOr(given string, me auth.Identity) string {
	if s := strings.TrimSpace(given); s != "" {
		return s
	}
	return me.Username
}

// GET /api/control-items/pending-approvals?user=<kullanıcı>
// Admin her şeyi görür, user ile daraltabilir. Diğer roller sadece kendi
// kayıtlarını görür.
func PendingApprovalsHandler(agg *Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		v := Viewer{Username: me.Username, Admin: me.IsAdmin()}
		if me.IsAdmin() {
			if scope := strings.TrimSpace(c.Query("user")); scope != "" {
				v = Viewer{Username: scope}
			}
		}

		items, err := agg.Pending(c.UserContext(), v)
		if err != nil {
			return httpx.Error(err)
		}
		return c.JSON(items)
	}
}

// PUT /api/control-items/:id/approve
func ApproveHandler(res *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := refParam(c)
		if err != nil {
			return httpx.Error(err)
		}
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
			}
		}

		err = res.Resolve(c.UserContext(), ref, Decision{
			Outcome: models.ApprovalApproved,
			Actor:   actorOr(body.ApprovedBy, me),
			ActorID: me.ID,
		})
		if err != nil {
			return httpx.Error(err)
		}

		return c.JSON(fiber.Map{
			"message": "Kayıt onaylandı",
			"id":      ref.String(),
		})
	}
}

// PUT /api/control-items/:id/reject
func RejectHandler(res *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := refParam(c)
		if err != nil {
			return httpx.Error(err)
		}
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body RejectRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
			}
		}

		err = res.Resolve(c.UserContext(), ref, Decision{
			Outcome: models.ApprovalRejected,
			Actor:   actorOr(body.RejectedBy, me),
			ActorID: me.ID,
			Reason:  body.Reason,
		})
		if err != nil {
			return httpx.Error(err)
		}

		return c.JSON(fiber.Map{
			"message": "Kayıt reddedildi",
			"id":      ref.String(),
		})
	}
}

// PUT /api/ybs-work-items/:id/approval
func YBSApprovalHandler(res *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body YBSApprovalRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		d := Decision{
			Outcome: body.ApprovalStatus,
			Actor:   actorOr(body.ApprovedBy, me),
			ActorID: me.ID,
			Reason:  body.RejectionReason,
		}
		if body.ApprovedAt != nil {
			d.At = *body.ApprovedAt
		}

		ref := workitem.NewRef(workitem.KindYBS, id)
		if err := res.Resolve(c.UserContext(), ref, d); err != nil {
			return httpx.Error(err)
		}

		return c.JSON(fiber.Map{
			"message":        "YBS iş kalemi karara bağlandı",
			"id":             ref.String(),
			"approvalStatus": d.Outcome,
		})
	}
}
