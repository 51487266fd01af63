package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "gorest-users/pkg/errors"
)

const (
	// MinNameLength is the shortest name the form accepts
	MinNameLength = 3
	// MaxNameLength is the longest name the form accepts
	MaxNameLength = 100
)

// NewUserInput is the add-user form as entered in the terminal or REST body.
type NewUserInput struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// markupPatterns match input that would be interpreted when the list is
// rendered somewhere other than a terminal.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

var validate = validator.New()

// Normalize trims surrounding whitespace from both fields.
func (in NewUserInput) Normalize() NewUserInput {
	return NewUserInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
}

// ValidateNewUser normalizes and validates the form. The returned error is
// always a *errors.ValidationError.
func ValidateNewUser(in NewUserInput) (NewUserInput, error) {
	in = in.Normalize()

	if err := validate.Struct(in); err != nil {
		return in, formatValidationError(err)
	}
	if err := checkSafe("Name", in.Name); err != nil {
		return in, err
	}
	return in, nil
}

// checkSafe rejects control characters and markup in a display field.
func checkSafe(field, value string) error {
	for _, r := range value {
		if unicode.IsControl(r) {
			return apperrors.NewValidationError(field, "contains invalid characters")
		}
	}
	for _, pattern := range markupPatterns {
		if pattern.MatchString(value) {
			return apperrors.NewValidationError(field, "contains invalid characters")
		}
	}
	return nil
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("", err.Error())
	}

	var (
		field    string
		messages []string
	)
	for _, e := range validationErrors {
		if field == "" {
			field = e.Field()
		}
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	if len(messages) > 1 {
		field = ""
	}
	return apperrors.NewValidationError(field, strings.Join(messages, ", "))
}
