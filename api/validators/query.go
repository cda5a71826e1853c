package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/brandcorner-backend/internal/checkout"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
)

const maxPhoneInput = 20

// ParseQueryInt reads an optional integer query parameter bounded by [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "query parameter must be numeric", nil)
	}
	if value < min || value > max {
		return 0, queryError(key, "query parameter out of range", map[string]any{"min": min, "max": max})
	}
	return value, nil
}

// ParseQueryPaymentMethod reads online|cod, falling back to defaultVal when absent.
func ParseQueryPaymentMethod(r *http.Request, key string, defaultVal enums.PaymentMethod) (enums.PaymentMethod, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	method, err := enums.ParsePaymentMethod(raw)
	if err != nil {
		return "", queryError(key, "invalid "+key, map[string]any{"allowed": []string{enums.PaymentMethodOnline.String(), enums.PaymentMethodCOD.String()}})
	}
	return method, nil
}

// ParseQueryPhone reads a required customer phone, normalized to the stored
// 10-digit form and checked with the checkout phone rule.
func ParseQueryPhone(r *http.Request, key string) (string, error) {
	phone := NormalizePhone(SanitizeString(r.URL.Query().Get(key), maxPhoneInput))
	if phone == "" {
		return "", queryError(key, "phone is required", nil)
	}
	if err := validate.Var(phone, checkout.TagIndianPhone); err != nil {
		return "", queryError(key, checkout.MsgInvalidPhone, nil)
	}
	return phone, nil
}

func queryError(key, msg string, extra map[string]any) error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
}
