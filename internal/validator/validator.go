package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

const (
	maxPasswordLength = 128
	minPasswordLength = 8
	maxEmailLength    = 254
	maxUsernameLength = 150
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name, the one clients sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (r *ValidationResult) Add(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Fields maps field names to messages, the shape returned to clients.
func (r ValidationResult) Fields() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = e.Message
	}
	return out
}

func Validate(s any) error {
	return validate.Struct(s)
}

// Check validates s against its struct tags and collects one error per
// failing field.
func Check(s any) ValidationResult {
	result := ValidationResult{Valid: true}

	err := Validate(s)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Add("", err.Error())
		return result
	}
	for _, fe := range fieldErrs {
		result.Add(fieldPath(fe), message(fe))
	}
	return result
}

// fieldPath drops the struct name prefix validator puts in the namespace,
// keeping indexes such as tag_ids[1].
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt", "gte":
		return "must be a positive id"
	case "email":
		return "invalid email format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "username":
		return "may contain only letters, digits and @.+-_"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email too long (max %d characters)", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password too long (max %d characters)", maxPasswordLength)
	}
	return nil
}

func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username too long (max %d characters)", maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only letters, digits and @.+-_")
	}
	return nil
}

// ValidateRegistration checks the credentials of a new account. Email is
// optional.
func ValidateRegistration(username, email, password string) ValidationResult {
	result := ValidationResult{Valid: true}

	if err := ValidateUsername(username); err != nil {
		result.Add("username", err.Error())
	}
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			result.Add("email", err.Error())
		}
	}
	if err := ValidatePassword(password); err != nil {
		result.Add("password", err.Error())
	}

	return result
}
