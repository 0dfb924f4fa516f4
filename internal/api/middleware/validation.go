package middleware

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"persona-video/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateRequest binds the JSON body, maps struct tag failures to a 400 and
// then runs domain validation.
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		// An empty body carries no audio either
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError(errors.MsgAudioRequired)
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewBadRequestError(errors.MsgAudioTooLarge)
		}

		var validationErrs validator.ValidationErrors
		if !stderrors.As(err, &validationErrs) {
			return errors.NewBadRequestError("Invalid JSON body")
		}

		for _, fieldError := range validationErrs {
			if fieldError.Field() == "Audio" && fieldError.Tag() == "required" {
				return errors.NewBadRequestError(errors.MsgAudioRequired)
			}
		}
		fieldError := validationErrs[0]
		switch fieldError.Tag() {
		case "oneof":
			return errors.NewBadRequestError(fieldError.Field() + " must be one of: " + fieldError.Param())
		default:
			return errors.NewBadRequestError(fieldError.Field() + " is invalid")
		}
	}

	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}
