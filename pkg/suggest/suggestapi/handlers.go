package suggestapi

import (
	"github.com/Abraxas-365/certmailer/pkg/suggest"
	"github.com/Abraxas-365/certmailer/pkg/suggest/suggestsrv"
	"github.com/gofiber/fiber/v2"
)

// SuggestHandlers exposes content suggestions over HTTP.
type SuggestHandlers struct {
	service *suggestsrv.SuggestService
}

func NewSuggestHandlers(service *suggestsrv.SuggestService) *SuggestHandlers {
	return &SuggestHandlers{service: service}
}

// RegisterRoutes mounts POST /api/v1/suggestions.
func (h *SuggestHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/api/v1/suggestions", h.Suggest)
}

// Suggest handles {"prompt": "...", "mode": "draft|polish"}.
func (h *SuggestHandlers) Suggest(c *fiber.Ctx) error {
	var req suggest.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	out, err := h.service.Suggest(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
