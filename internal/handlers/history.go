package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/history"
)

type HistoryHandler struct {
	service *history.Service
	logger  *slog.Logger
}

func NewHistoryHandler(log *slog.Logger, service *history.Service) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  log.With(slog.String("handler", "history")),
	}
}

func (h *HistoryHandler) Register(e *echo.Echo) {
	e.GET("/api/chat-history", h.List)
}

// List godoc
// @Summary List chat history
// @Description Every turn between the user and one agent, oldest first
// @Tags history
// @Param user_id query string true "User ID"
// @Param agent_id query string true "Agent ID or display name"
// @Success 200 {object} history.ListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/chat-history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))
	agentParam := strings.TrimSpace(c.QueryParam("agent_id"))
	if userID == "" || agentParam == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and agent_id required")
	}
	if err := RequireSelf(c, userID); err != nil {
		return err
	}

	agent := agents.Resolve(agentParam)
	turns, err := h.service.List(c.Request().Context(), userID, string(agent.ID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch history").SetInternal(err)
	}
	items := make([]history.Entry, 0, len(turns))
	for _, t := range turns {
		items = append(items, t.ToEntry())
	}
	return c.JSON(http.StatusOK, history.ListResponse{History: items})
}
