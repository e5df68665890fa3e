package utils

import (
	"MatSmart-Lager/domain"
	"github.com/go-playground/validator/v10"
	"slices"
	"strings"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = NewValidator()
}

func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("unit", oneOf(domain.Units))
	_ = v.RegisterValidation("category", oneOf(domain.Categories))
	_ = v.RegisterValidation("reason", oneOf(domain.Reasons))
	_ = v.RegisterValidation("mealtype", oneOf(domain.MealTypes))
	return v
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}
