package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		SetPassword(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}

	res, err := h.userService.GetUser(c.Context(), userID, userID)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetMe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMe)
}

func (h *userHandler) SetPassword(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}

	req := new(domain.SetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetPassword, err)
	}

	if err := h.userService.SetPassword(c.Context(), userID, *req); err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedSetPassword, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessSetPassword)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)
	users, count, err := h.userService.GetUsers(c.Context(), viewerID(c), page, limit)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, paginated(users, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUsers, domain.ErrParseUUID)
	}

	res, err := h.userService.GetUser(c.Context(), id, viewerID(c))
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	authorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubscribe, domain.ErrParseUUID)
	}

	res, err := h.userService.Subscribe(c.Context(), userID, authorID)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	authorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnsubscribe, domain.ErrParseUUID)
	}

	if err := h.userService.Unsubscribe(c.Context(), userID, authorID); err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedUnsubscribe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnsubscribe)
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}

	page, limit := pagination(c)
	subs, count, err := h.userService.GetSubscriptions(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetSubscriptions, err)
	}
	return presenters.SuccessResponse(c, paginated(subs, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}
