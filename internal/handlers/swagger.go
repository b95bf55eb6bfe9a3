package handlers

// @title Startup Setu API
// @version 1.0.0
// @description Chat with startup advisor agents, keep a startup profile and chat history.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/startupsetu/setu/docs"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g swagger.go -d ./,../chat,../history,../accounts -o ../../docs --outputTypes json --parseInternal

// SwaggerHandler serves the API document and a Swagger UI page.
type SwaggerHandler struct {
	spec   []byte
	logger *slog.Logger
}

func NewSwaggerHandler(log *slog.Logger) *SwaggerHandler {
	return &SwaggerHandler{
		spec:   docs.SwaggerJSON(),
		logger: log.With(slog.String("handler", "swagger")),
	}
}

func (h *SwaggerHandler) Register(e *echo.Echo) {
	e.GET("/api/swagger.json", h.Spec)
	e.GET("/api/docs", h.UI)
	e.GET("/api/docs/", h.UI)
}

func (h *SwaggerHandler) Spec(c echo.Context) error {
	if len(h.spec) == 0 || !json.Valid(h.spec) {
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).
			SetInternal(errors.New("swagger document missing or invalid; run go generate ./internal/handlers"))
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, h.spec)
}

func (h *SwaggerHandler) UI(c echo.Context) error {
	return c.HTML(http.StatusOK, swaggerUIHTML)
}

const swaggerUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>Startup Setu API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.onload = () => {
        window.ui = SwaggerUIBundle({
          url: '/api/swagger.json',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`
