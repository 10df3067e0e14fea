package handlers

import (
	"time"

	"staykeeper/internal/app"
	"staykeeper/internal/models"
	"staykeeper/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminSessionHandler struct {
	Handler
	triageService *services.TriageService
}

func NewAdminSessionHandler(app app.App, router fiber.Router) *AdminSessionHandler {
	log := logger.New("handlers").File("admin_session_handler")
	return &AdminSessionHandler{
		triageService: app.Service.Triage,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminSessionHandler) Register() {
	admin := h.router.Group("/admin")

	// All admin endpoints require operator authentication
	protected := admin.Group("/", h.middleware.RequireOperator())

	sessions := protected.Group("/sessions")
	sessions.Get("/", h.listSessions)
	sessions.Post("/:id/resolve", h.resolveSession)
	sessions.Post("/:id/unresolve", h.unresolveSession)
	sessions.Post("/:id/assign", h.assignSession)
	sessions.Post("/:id/escalation", h.overrideEscalation)
}

// listSessions returns the triage-ordered session listing for one property:
// hottest first, freshest breaking ties. Scoring side effects (escalation,
// heat persistence) happen during this call.
func (h *AdminSessionHandler) listSessions(c *fiber.Ctx) error {
	log := h.log.Function("listSessions")

	propertyID := c.QueryInt("propertyId")
	if propertyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "propertyId query parameter is required",
		})
	}

	rows, err := h.triageService.ListForProperty(c.UserContext(), propertyID, time.Now())
	if err != nil {
		_ = log.Error("failed to list sessions", "error", err, "propertyID", propertyID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load sessions",
		})
	}

	return c.JSON(fiber.Map{"sessions": rows})
}

func (h *AdminSessionHandler) resolveSession(c *fiber.Ctx) error {
	return h.setResolved(c, true)
}

func (h *AdminSessionHandler) unresolveSession(c *fiber.Ctx) error {
	return h.setResolved(c, false)
}

func (h *AdminSessionHandler) setResolved(c *fiber.Ctx, resolved bool) error {
	log := h.log.Function("setResolved")

	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session id",
		})
	}

	if resolved {
		err = h.triageService.Resolve(c.UserContext(), sessionID)
	} else {
		err = h.triageService.Unresolve(c.UserContext(), sessionID)
	}
	if err != nil {
		_ = log.Error("failed to update resolved state", "error", err, "sessionID", sessionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update session",
		})
	}

	return c.JSON(fiber.Map{"sessionId": sessionID, "resolved": resolved})
}

type assignRequest struct {
	Assignee *string `json:"assignee"`
}

func (h *AdminSessionHandler) assignSession(c *fiber.Ctx) error {
	log := h.log.Function("assignSession")

	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session id",
		})
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.triageService.Assign(c.UserContext(), sessionID, req.Assignee); err != nil {
		_ = log.Error("failed to assign session", "error", err, "sessionID", sessionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign session",
		})
	}

	return c.JSON(fiber.Map{"sessionId": sessionID, "assignee": req.Assignee})
}

type escalationRequest struct {
	Level string `json:"level"`
}

// overrideEscalation is the manual operator control and may lower a level,
// unlike the automatic monotonic escalation.
func (h *AdminSessionHandler) overrideEscalation(c *fiber.Ctx) error {
	log := h.log.Function("overrideEscalation")

	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session id",
		})
	}

	var req escalationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.IsValidEscalationLevel(req.Level) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid escalation level",
		})
	}

	if err := h.triageService.OverrideEscalation(
		c.UserContext(), sessionID, req.Level, time.Now(),
	); err != nil {
		_ = log.Error("failed to override escalation", "error", err, "sessionID", sessionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update escalation",
		})
	}

	return c.JSON(fiber.Map{"sessionId": sessionID, "escalationLevel": req.Level})
}
