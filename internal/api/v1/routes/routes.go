package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"persona-video/internal/api/middleware"
	"persona-video/internal/api/v1/dto"
	"persona-video/internal/api/v1/handlers"
)

// AskPaths are the paths the pipeline endpoint answers on. /generate is the
// path older browser clients post to.
var AskPaths = []string{"/ask", "/generate"}

// RegisterRoutes registers the pipeline endpoint. Every method is routed so
// that anything but POST gets a 405 before the password is checked.
func RegisterRoutes(router *gin.RouterGroup, askHandler *handlers.AskHandler, accessPassword string) {
	chain := []gin.HandlerFunc{
		middleware.AllowMethods(http.MethodPost),
		middleware.AccessPassword(accessPassword),
		middleware.BodyLimit(dto.MaxRequestBytes),
		askHandler.Ask,
	}

	for _, path := range AskPaths {
		router.Any(path, chain...)
	}
}
