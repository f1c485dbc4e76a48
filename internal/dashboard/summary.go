package dashboard

import (
	"bakim-takip-backend/internal/approval"
	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/httpx"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PeriodStatusCount struct {
	Period models.Period `json:"period"`
	Status string        `json:"status"`
	Count  int64         `json:"count"`
}

type SummaryResponse struct {
	From             string              `json:"from,omitempty"`
	To               string              `json:"to,omitempty"`
	ControlItems     []PeriodStatusCount `json:"control_items"`
	PendingApprovals map[string]int      `json:"pending_approvals"`
	PendingTotal     int                 `json:"pending_total"`
}

// GET /api/dashboard/summary?from=2024-01-01&to=2024-01-31
// Admin olmayan kullanıcılar sadece kendi kalemlerini görür.
func SummaryHandler(db *gorm.DB, agg *approval.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		from, err := httpx.QueryDate(c, "from")
		if err != nil {
			return err
		}
		to, err := httpx.QueryDate(c, "to")
		if err != nil {
			return err
		}

		q := db.WithContext(c.UserContext()).Model(&models.ControlItem{}).
			Select("period, status, COUNT(*) AS count")
		if !me.IsAdmin() {
			q = q.Where("assigned_user = ?", me.Username)
		}
		if from != nil {
			q = q.Where("date >= ?", *from)
		}
		if to != nil {
			q = q.Where("date < ?", to.AddDate(0, 0, 1))
		}

		rows := make([]PeriodStatusCount, 0)
		if err := q.Group("period, status").Order("period, status").Scan(&rows).Error; err != nil {
			return httpx.Error(workitem.StorageError("özet okunamadı", err))
		}

		pending, err := agg.Pending(c.UserContext(), approval.Viewer{Username: me.Username, Admin: me.IsAdmin()})
		if err != nil {
			return httpx.Error(err)
		}

		resp := SummaryResponse{
			ControlItems:     rows,
			PendingApprovals: map[string]int{},
			PendingTotal:     len(pending),
		}
		for _, k := range workitem.Kinds {
			resp.PendingApprovals[string(k)] = 0
		}
		for _, it := range pending {
			resp.PendingApprovals[string(it.Type)]++
		}
		if from != nil {
			resp.From = from.Format("2006-01-02")
		}
		if to != nil {
			resp.To = to.Format("2006-01-02")
		}

		return c.JSON(resp)
	}
}
