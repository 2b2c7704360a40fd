package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
)

// ParsePathID reads a numeric chi URL parameter.
func ParsePathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// FormString returns a trimmed form value; missing fields read as "".
func FormString(r *http.Request, key string) string {
	return SanitizeString(r.PostFormValue(key), 0)
}

// FormInt parses a required integer form field.
func FormInt(r *http.Request, key string) (int, error) {
	raw, err := requiredFormValue(r, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "form field must be an integer").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// FormInt64 parses a required identifier form field.
func FormInt64(r *http.Request, key string) (int64, error) {
	raw, err := requiredFormValue(r, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "form field must be an integer").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// FormDecimal parses a required decimal form field such as a price.
func FormDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	raw, err := requiredFormValue(r, key)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "form field must be a number").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func requiredFormValue(r *http.Request, key string) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	raw := strings.TrimSpace(r.PostForm.Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "form field required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
