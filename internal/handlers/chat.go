package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/startupsetu/setu/internal/chat"
	"github.com/startupsetu/setu/internal/logger"
)

// ChatHandler serves POST /api/chat.
type ChatHandler struct {
	service *chat.Service
	logger  *slog.Logger
}

func NewChatHandler(log *slog.Logger, service *chat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  log.With(slog.String("handler", "chat")),
	}
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
}

// Chat godoc
// @Summary Send a chat message
// @Description Route a message to an agent persona and return its reply, or an upgrade notice for locked agents
// @Tags chat
// @Param payload body chat.ChatRequest true "Chat request"
// @Success 200 {object} chat.ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req, problems := chat.DecodeRequest(body)
	if len(problems) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(problems, "; "))
	}
	if err := RequireSelf(c, req.UserID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	resp, err := h.service.Chat(ctx, req)
	if err != nil {
		var vErr *chat.ValidationError
		if errors.As(err, &vErr) {
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
		}
		logger.FromContext(ctx).Error("chat turn failed", slog.String("user_id", req.UserID), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process chat").SetInternal(err)
	}
	return c.JSON(http.StatusOK, resp)
}
