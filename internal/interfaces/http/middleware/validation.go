package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dormbill/backend/internal/domain/billing"
)

// SetupValidator configures the binding validator: JSON tag names in
// error messages and the fee_method rule used by rate configuration
// requests.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

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

	_ = v.RegisterValidation("fee_method", func(fl validator.FieldLevel) bool {
		return billing.FeeMethod(fl.Field().String()).IsValid()
	})
}
