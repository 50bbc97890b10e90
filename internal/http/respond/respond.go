// Package respond renders handler results and maps shop errors to HTTP.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type errorResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var statusByCategory = map[shoperr.Category]int{
	shoperr.CategoryValidation:    http.StatusBadRequest,
	shoperr.CategoryNotFound:      http.StatusNotFound,
	shoperr.CategoryState:         http.StatusConflict,
	shoperr.CategoryDomainRule:    http.StatusUnprocessableEntity,
	shoperr.CategoryAuthorization: http.StatusUnauthorized,
	shoperr.CategoryConflict:      http.StatusConflict,
	shoperr.CategoryUnavailable:   http.StatusServiceUnavailable,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	if e, ok := shoperr.As(err); ok {
		if status, ok := statusByCategory[e.Category]; ok {
			return status
		}
	}

	return http.StatusInternalServerError
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageResponse{Message: msg})
}

// Error writes err as {"result": code, "message": text}. Unclassified errors
// are logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := shoperr.As(err)
	if !ok {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Result: "InternalError", Message: "internal error"})

		return
	}

	JSON(w, Status(err), errorResponse{Result: e.Code, Message: err.Error()})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Decode reads a JSON body into dst and validates it. Unknown fields, type
// mismatches and missing required fields map to the matching validation
// errors.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	if dec.More() {
		return shoperr.ErrInvalidJSON
	}

	return Validate(dst)
}

// Validate runs the struct validation rules of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return shoperr.ErrInvalidData
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return shoperr.Field(shoperr.ErrDataMissing, field)
	case "ne":
		return shoperr.Field(shoperr.ErrInvalidAmount, field)
	default:
		return shoperr.Field(shoperr.ErrInvalidData, field)
	}
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return shoperr.Field(shoperr.ErrDataMissing, "body")
	case errors.As(err, &typeErr):
		return shoperr.Field(shoperr.ErrWrongType, typeErr.Field)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return shoperr.Field(shoperr.ErrUnknownField, field)
	default:
		return shoperr.ErrInvalidJSON
	}
}

// IDParam parses a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, shoperr.Field(shoperr.ErrWrongType, name)
	}

	return id, nil
}

// QueryID parses an optional positive integer query parameter. ok is false
// when the parameter is absent.
func QueryID(r *http.Request, name string) (id int64, ok bool, err error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, shoperr.Field(shoperr.ErrWrongType, name)
	}

	return id, true, nil
}
