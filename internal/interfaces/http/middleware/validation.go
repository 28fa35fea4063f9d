package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator: field names in errors follow the
// json (or form) tag, and the marketplace enums get their own tags.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	return RegisterValidators(v)
}

// RegisterValidators adds the custom tags to v
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// sellers can only move an order between pending and shipped
	if err := v.RegisterValidation("shipping_status", func(fl validator.FieldLevel) bool {
		s := trade.ShippingStatus(fl.Field().String())
		return s == trade.ShippingStatusPending || s == trade.ShippingStatusShipped
	}); err != nil {
		return err
	}
	return v.RegisterValidation("item_condition", func(fl validator.FieldLevel) bool {
		return catalog.Condition(fl.Field().String()).IsValid()
	})
}

// BindingError turns a gin binding failure into a VALIDATION_ERROR listing
// one entry per offending field.
func BindingError(err error) *shared.DomainError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return shared.NewValidationError("Invalid request body")
	}

	details := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, e.Field()+": "+validationMessage(e))
	}
	return shared.NewDomainErrorWithDetails(shared.CodeValidation, "Invalid parameters", details...)
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "shipping_status":
		return "Must be one of: pending, shipped"
	case "item_condition":
		return "Unknown item condition"
	default:
		return "Invalid value"
	}
}
