package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mcnijman/go-emailaddress"
)

// profileInput is the normalised shape every create or update is checked in
type profileInput struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password *string `json:"password" validate:"omitnil,required,min=7"`
	Age      int     `json:"age" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkProfile runs the struct rules plus the checks the tags cannot express
func checkProfile(in profileInput) error {
	var msgs []string

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
	}

	if in.Email != "" {
		if _, err := emailaddress.Parse(in.Email); err != nil {
			msgs = append(msgs, "email is invalid")
		}
	}
	if in.Password != nil && strings.Contains(strings.ToLower(*in.Password), "password") {
		msgs = append(msgs, `password cannot contain "password"`)
	}

	if len(msgs) > 0 {
		return invalid(msgs...)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be a positive number", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// normaliseEmail trims and lower-cases so lookups and uniqueness agree
func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
