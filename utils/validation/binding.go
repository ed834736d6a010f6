package validation

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingValidators adds the custom tags used in request structs:
// lkphone, luhn, cardexpiry, cvv and personname.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterValidators(v)
}

// RegisterValidators installs the custom tags on v.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"lkphone": func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		},
		"luhn": func(fl validator.FieldLevel) bool {
			return IsValidCardNumber(fl.Field().String())
		},
		"cardexpiry": func(fl validator.FieldLevel) bool {
			return IsValidExpiry(fl.Field().String(), time.Now())
		},
		"cvv": func(fl validator.FieldLevel) bool {
			return IsValidCVV(fl.Field().String())
		},
		"personname": func(fl validator.FieldLevel) bool {
			return IsValidName(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
