package url

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that raw is an absolute http or https URL and returns it
// with surrounding whitespace removed. The URL is otherwise stored as typed.
func Validate(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if err := validate.Var(url, "required,http_url"); err != nil {
		return raw, fmt.Errorf("invalid url %q", raw)
	}
	return url, nil
}
