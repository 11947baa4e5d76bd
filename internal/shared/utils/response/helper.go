package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes a single rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// RespondJSON writes the envelope as the response body
func RespondJSON[T any](c *gin.Context, httpStatus int, env *Envelope[T]) {
	c.JSON(httpStatus, env)
}

// AbortWith writes the envelope and stops the handler chain
func AbortWith[T any](c *gin.Context, httpStatus int, env *Envelope[T]) {
	c.AbortWithStatusJSON(httpStatus, env)
}

// OK writes a success envelope carrying data with 200
func OK[T any](c *gin.Context, data T) {
	RespondJSON(c, http.StatusOK, SuccessWith(data))
}

// Fail writes a failure envelope with the given message
func Fail(c *gin.Context, httpStatus int, message string) {
	RespondJSON(c, httpStatus, Failure[any]().WithMessage(message))
}

// ValidationFailure converts a binding or validation error into a failure
// envelope. Each violated field is attached with WithData, so one violation
// serializes as an object and several as an array in field order.
func ValidationFailure(err error) *Envelope[FieldError] {
	env := Failure[FieldError]().WithMessage("validation failed")

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return env.WithData(FieldError{Field: "body", Message: err.Error()})
	}

	for _, fe := range verrs {
		env.WithData(FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fieldMessage(fe),
		})
	}
	return env
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}
