package server

import (
	"bakim-takip-backend/internal/admin"
	"bakim-takip-backend/internal/approval"
	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/auth"
	"bakim-takip-backend/internal/bagtv"
	"bakim-takip-backend/internal/config"
	"bakim-takip-backend/internal/controlitem"
	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/dashboard"
	"bakim-takip-backend/internal/logger"
	"bakim-takip-backend/internal/message"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/migration"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/notify"
	"bakim-takip-backend/internal/workitem"
	"bakim-takip-backend/internal/ybs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Caps      workitem.Capabilities
	Metrics   *metrics.Metrics
	Publisher notify.Publisher
	Log       logrus.FieldLogger
}

// New tüm route'ları bağlanmış fiber uygulamasını kurar.
func New(d Deps) *fiber.App {
	if d.Publisher == nil {
		d.Publisher = notify.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(nil)
	}
	log := d.Log

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithError(err).WithField("path", c.Path()).Error("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.RequestLogger(log))
	app.Use(d.Metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Config.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", d.Metrics.Handler())

	aggregator := approval.NewAggregator(d.DB, d.Caps, d.Metrics, log)
	resolver := approval.NewResolver(d.DB, d.Caps, d.Metrics, d.Publisher, log)
	engine := migration.NewEngine(d.DB, d.Metrics, d.Publisher, log)

	controlItems := controlitem.NewService(d.DB)
	ybsItems := ybs.NewService(d.DB)
	bagtvControls := bagtv.NewService(d.DB, d.Caps)
	messages := message.NewService(d.DB, d.Caps)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(d.DB))
	api.Post("/auth/login", auth.LoginHandler(d.DB, d.Config))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(d.Config.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler(d.DB))

	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(adminOnly)

	// Tesis yönetimi
	adminRoutes.Post("/facilities", admin.CreateFacilityHandler(d.DB))
	adminRoutes.Get("/facilities", admin.ListFacilitiesHandler(d.DB))
	adminRoutes.Get("/facilities/:id", admin.GetFacilityHandler(d.DB))
	adminRoutes.Put("/facilities/:id", admin.UpdateFacilityHandler(d.DB))
	adminRoutes.Delete("/facilities/:id", admin.DeleteFacilityHandler(d.DB))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", admin.CreateUserHandler(d.DB))
	adminRoutes.Get("/users", admin.ListUsersHandler(d.DB))

	// Ortak (auth gerektiren) route'lar
	protected.Get("/facilities", admin.ListFacilitiesHandler(d.DB))

	// Onay akışı ve dönem taşıma; /:id route'larından önce bağlanmalı
	protected.Get("/control-items/pending-approvals", approval.PendingApprovalsHandler(aggregator))
	protected.Put("/control-items/:id/approve", adminOnly, approval.ApproveHandler(resolver))
	protected.Put("/control-items/:id/reject", adminOnly, approval.RejectHandler(resolver))
	protected.Post("/control-items/move", migration.MoveHandler(engine))
	protected.Put("/ybs-work-items/:id/approval", adminOnly, approval.YBSApprovalHandler(resolver))

	// İş kalemleri
	crud.Register(protected.Group("/control-items"), crud.Resource[models.ControlItem, controlitem.Input](controlItems), adminOnly)
	crud.Register(protected.Group("/ybs-work-items"), crud.Resource[models.YBSWorkItem, ybs.Input](ybsItems), adminOnly)
	crud.Register(protected.Group("/bagtv-controls"), crud.Resource[models.BagTVControl, bagtv.Input](bagtvControls), adminOnly)
	crud.Register(protected.Group("/messages"), crud.Resource[models.Message, message.Input](messages), adminOnly)

	// Audit
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(d.DB))
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler(d.DB))

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler(d.DB, aggregator))

	return app
}
