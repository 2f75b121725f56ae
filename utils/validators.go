package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var noteColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate is shared by every request contract; validator caches struct metadata.
var Validate = NewValidator()

func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON (or form) names so clients can map them.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	v.RegisterValidation("notecolor", ValidateNoteColorRule)
	v.RegisterValidation("maxbytes", ValidateMaxBytesRule)
	return v
}

// ValidateMaxBytesRule caps the UTF-8 encoded length, unlike max which counts
// runes. bcrypt rejects passwords over 72 bytes.
func ValidateMaxBytesRule(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func ValidateNoteColorRule(fl validator.FieldLevel) bool {
	return noteColorPattern.MatchString(fl.Field().String())
}

// ValidateStruct runs every rule on s and returns all violations, or nil.
func ValidateStruct(s interface{}) []FieldError {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

// fieldPath drops the top-level struct name: "NoteRequest.tags[2]" -> "tags[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s cannot have more than %s items", name, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
	case "email":
		return "Please provide a valid email address"
	case "maxbytes":
		return fmt.Sprintf("%s cannot exceed %s bytes", name, fe.Param())
	case "notecolor":
		return "Color must be a valid hex code"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
