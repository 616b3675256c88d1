package rest

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/heavymart/bidgate/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler exposes the auction view over HTTP. Responses carry the outcome,
// notice and optional redirect so the page can drive its own navigation.
type Handler struct {
	svc     application.BiddingService
	handoff domain.HandoffSlot
}

func NewHandler(svc application.BiddingService, handoff domain.HandoffSlot) *Handler {
	return &Handler{svc: svc, handoff: handoff}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/listings/:id", h.getListing)
	api.Post("/listings/:id/bid", h.placeBid)
	api.Post("/listings/:id/buy-now", h.buyNow)
	api.Get("/checkout/handoff", h.takeHandoff)
}

func (h *Handler) getListing(c *fiber.Ctx) error {
	state, err := h.svc.ListingState(c.Context(), c.Params("id"))
	if err != nil {
		return h.asHTTPError(c, err)
	}
	return c.JSON(state)
}

type placeBidRequest struct {
	Amount   string `json:"amount"`
	ReturnTo string `json:"return_to"`
}

func (h *Handler) placeBid(c *fiber.Ctx) error {
	listingID := c.Params("id")

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.svc.PlaceBid(c.Context(), listingID, bearerToken(c), returnTo(c, req.ReturnTo, listingID), req.Amount)
	if err != nil {
		return h.asHTTPError(c, err)
	}
	return c.JSON(res)
}

type buyNowRequest struct {
	ReturnTo string `json:"return_to"`
}

func (h *Handler) buyNow(c *fiber.Ctx) error {
	listingID := c.Params("id")

	// an empty body is fine here
	var req buyNowRequest
	_ = c.BodyParser(&req)

	res, err := h.svc.BuyNow(c.Context(), listingID, bearerToken(c), returnTo(c, req.ReturnTo, listingID))
	if err != nil {
		return h.asHTTPError(c, err)
	}
	return c.JSON(res)
}

// takeHandoff is read by the checkout screen exactly once after a buy-now
// redirect.
func (h *Handler) takeHandoff(c *fiber.Ctx) error {
	listingID, ok := h.handoff.Take()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no pending checkout"})
	}
	return c.JSON(fiber.Map{"listing_id": listingID})
}

func (h *Handler) asHTTPError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrListingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}
	log.Error("bidding request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream service unavailable"})
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	return strings.TrimPrefix(auth, "Bearer ")
}

// returnTo resolves the origin route carried through remediation redirects:
// the client-provided one when present, else the listing page itself.
func returnTo(c *fiber.Ctx, fromRequest, listingID string) string {
	if fromRequest != "" {
		return fromRequest
	}
	return "/listings/" + listingID
}
