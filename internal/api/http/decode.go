package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"carrental-backend/internal/domain"
)

var validate = validator.New()

// decodeJSON reads the body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Errorf(domain.ErrValidation, "invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return domain.Errorf(domain.ErrValidation, "invalid request: %v", err)
	}
	return nil
}

// pathID reads a positive int32 path variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Errorf(domain.ErrValidation, "invalid %s %q", name, raw)
	}
	return int32(id), nil
}
