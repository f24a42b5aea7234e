package v1

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
)

var ErrValidation = errors.New("validation_failed")

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validator *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validator: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewAppError(http.StatusBadRequest, INVALID_REQUEST, ErrInvalidRequest)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return apperrors.NewAppError(http.StatusBadRequest, strings.Join(problems, "; "), ErrValidation)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, INVALID_REQUEST, ErrInvalidRequest)
	}
	return c.Validate(req)
}
