package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldMessages = map[string]string{
	"email.required":    "Email required",
	"email.email":       "Invalid email",
	"password.required": "Password required",
	"password.min":      "Password too short",
	"title.required":    "Title required",
	"content.required":  "Content required",
	"status.oneof":      "Invalid status",
	"role.oneof":        "Invalid role",
}

type registerRules struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type loginRules struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type postRules struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
	Status  string `validate:"omitempty,oneof=draft published"`
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, ", "))
}

func validateVar(field, value, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrValidation, fieldMessage(field, fieldErrs[0].Tag()))
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func fieldMessage(field, tag string) string {
	field = strings.ToLower(field)
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	return fmt.Sprintf("Invalid %s", field)
}

// normalizeName trims an optional display name. A provided name that is
// blank after trimming is rejected.
func normalizeName(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: Name cannot be empty if provided", domain.ErrValidation)
	}
	return &trimmed, nil
}
