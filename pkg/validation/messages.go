package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages flattens a binding error into one human-readable message per
// failed field. Non-validator errors (malformed JSON, wrong content type)
// come back as a single generic entry.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"request body is malformed"}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	if byTag, ok := customMessages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// customMessages overrides the generic wording for fields whose generated
// message reads poorly.
var customMessages = map[string]map[string]string{
	"Password": {
		"required": "password must not be empty",
		"min":      "password must be at least 8 characters",
	},
	"Username": {
		"required":  "username must not be empty",
		"lowercase": "username must be lowercase",
	},
	"FullName": {
		"required": "full name must not be empty",
	},
	"Title": {
		"required": "title must not be empty",
	},
}
