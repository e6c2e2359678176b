package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate runs struct validation using json field names in errors.
func Validate(v any) error {
	return validate.Struct(v)
}

// DecodeJSON reads a JSON body into dst and validates it. On failure the
// error response is already written and false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Request body required")
			return false
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	if err := Validate(dst); err != nil {
		httperrors.RespondValidationErrors(w, err)
		return false
	}
	return true
}
