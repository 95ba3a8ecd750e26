package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/tag"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	TagHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
	}

	tagHandler struct {
		tagService tag.TagService
	}
)

func NewTagHandler(tagService tag.TagService) TagHandler {
	return &tagHandler{tagService: tagService}
}

func (h *tagHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *tagHandler) GetTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTags, domain.ErrParseUUID)
	}

	res, err := h.tagService.GetTag(c.Context(), id)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}
