package handlers

import (
	"errors"
	"time"

	"staykeeper/internal/app"
	"staykeeper/internal/handlers/middleware"
	"staykeeper/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type GuestUpgradeHandler struct {
	Handler
	checkoutService *services.CheckoutService
}

func NewGuestUpgradeHandler(app app.App, router fiber.Router) *GuestUpgradeHandler {
	log := logger.New("handlers").File("guest_upgrade_handler")
	return &GuestUpgradeHandler{
		checkoutService: app.Service.Checkout,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GuestUpgradeHandler) Register() {
	guest := h.router.Group("/guest", h.middleware.RequireGuestSession())

	guest.Get("/properties/:propertyId/upgrades", h.listUpgrades)
	guest.Post("/upgrades/:upgradeId/checkout", h.checkout)
}

// listUpgrades returns every active upgrade of the property with its current
// eligibility verdict. Ineligible upgrades are included so the client can
// render them greyed out with the reason.
func (h *GuestUpgradeHandler) listUpgrades(c *fiber.Ctx) error {
	log := h.log.Function("listUpgrades")

	session := middleware.GetGuestSession(c)
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	propertyID, err := c.ParamsInt("propertyId")
	if err != nil || propertyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	if session.PropertyID != propertyID {
		log.Info(
			"session attempted cross-property listing",
			"sessionID", session.ID,
			"propertyID", propertyID,
		)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Session does not belong to this property",
		})
	}

	evaluated, err := h.checkoutService.EvaluateForSession(c.UserContext(), session, time.Now())
	if err != nil {
		_ = log.Error("failed to evaluate upgrades", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load upgrades",
		})
	}

	return c.JSON(fiber.Map{"upgrades": evaluated})
}

// checkout re-verifies eligibility against live reservation data and creates
// a pending purchase. A stale display verdict is rejected here, not trusted.
func (h *GuestUpgradeHandler) checkout(c *fiber.Ctx) error {
	log := h.log.Function("checkout")

	session := middleware.GetGuestSession(c)
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	upgradeID, err := c.ParamsInt("upgradeId")
	if err != nil || upgradeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid upgrade id",
		})
	}

	purchase, result, err := h.checkoutService.BeginPurchase(
		c.UserContext(), session, upgradeID, time.Now(),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUpgradeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Upgrade not found",
			})
		case errors.Is(err, services.ErrWrongProperty):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Upgrade does not belong to this property",
			})
		case errors.Is(err, services.ErrAlreadyPurchased):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Upgrade already purchased for this stay",
			})
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Upgrade has an invalid price",
			})
		default:
			_ = log.Error("checkout failed", "error", err, "upgradeID", upgradeID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Checkout failed",
			})
		}
	}

	if purchase == nil {
		log.Info(
			"checkout rejected",
			"sessionID", session.ID,
			"upgradeID", upgradeID,
			"reason", result.Reason,
		)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"eligible": false,
			"reason":   result.Reason,
			"opensAt":  result.OpensAt,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"purchase": purchase,
		"result":   result,
	})
}
