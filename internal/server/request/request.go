package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type AddSite struct {
	OwnerId int64  `json:"owner_id" validate:"required"`
	Url     string `json:"url" validate:"required"`
}

// ReadJSON decodes the body into v and validates its struct tags.
func ReadJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}
