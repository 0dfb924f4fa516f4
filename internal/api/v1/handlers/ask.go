package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-video/internal/api/errors"
	"persona-video/internal/api/middleware"
	"persona-video/internal/api/v1/dto"
	"persona-video/internal/app/pipeline"
)

// Runner runs one question through the pipeline
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// AskHandler handles question requests
type AskHandler struct {
	runner Runner
	logger *zap.Logger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(runner Runner, logger *zap.Logger) *AskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskHandler{runner: runner, logger: logger}
}

// Ask handles POST /api/ask. Method and password checks run as middleware
// before this handler; nothing below them touches an upstream service until
// the audio has been decoded.
func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	audio, err := req.Decode()
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.runner.Run(c.Request.Context(), pipeline.Input{Audio: audio, Format: req.Format})
	if err != nil {
		h.logger.Error("pipeline failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err))
		middleware.HandleError(c, errors.NewPipelineError(err))
		return
	}

	c.JSON(http.StatusOK, dto.AskResponse{
		Transcription: result.Transcription,
		Response:      result.Response,
		VideoURL:      result.VideoURL,
	})
}
