package checkout

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
)

const (
	MsgRequiredFields = "Please fill all the required fields."
	MsgInvalidPhone   = "Please enter a valid 10-digit Indian phone number."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgInvalidPincode = "Please enter a valid 6-digit pincode."
	MsgEmptyCart      = "Your cart is empty. Please add items to proceed."
)

// Validator tags for the checkout form rules, registered by RegisterFormTags.
const (
	TagNotBlank    = "notblank"
	TagIndianPhone = "in_phone"
	TagSimpleEmail = "simple_email"
	TagPincode     = "in_pincode"
)

var (
	indianPhonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	simpleEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pincodePattern     = regexp.MustCompile(`^\d{6}$`)
)

// CustomerDetails is the shipping contact form.
type CustomerDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact1 string `json:"contact1"`
	Address  string `json:"address"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (d CustomerDetails) requiredFields() []string {
	return []string{d.Name, d.Email, d.Contact1, d.Address, d.District, d.State, d.Pincode}
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterFormTags(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterFormTags adds the checkout form rules to v.
func RegisterFormTags(v *validator.Validate) error {
	rules := []struct {
		tag string
		fn  validator.Func
	}{
		{TagNotBlank, func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" }},
		{TagIndianPhone, func(fl validator.FieldLevel) bool { return indianPhonePattern.MatchString(fl.Field().String()) }},
		{TagSimpleEmail, func(fl validator.FieldLevel) bool { return simpleEmailPattern.MatchString(fl.Field().String()) }},
		{TagPincode, func(fl validator.FieldLevel) bool { return pincodePattern.MatchString(fl.Field().String()) }},
	}
	for _, rule := range rules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDetails runs the checkout form checks in order and reports the first
// failing one as a validation error carrying its customer-facing message.
func ValidateDetails(details CustomerDetails, items []cart.Item) error {
	for _, field := range details.requiredFields() {
		if formValidator.Var(field, TagNotBlank) != nil {
			return formError(MsgRequiredFields, "required")
		}
	}
	if formValidator.Var(details.Contact1, TagIndianPhone) != nil {
		return formError(MsgInvalidPhone, "contact1")
	}
	if formValidator.Var(details.Email, TagSimpleEmail) != nil {
		return formError(MsgInvalidEmail, "email")
	}
	if formValidator.Var(details.Pincode, TagPincode) != nil {
		return formError(MsgInvalidPincode, "pincode")
	}
	if len(items) == 0 {
		return formError(MsgEmptyCart, "cart")
	}
	return nil
}

// Valid is the boolean form of ValidateDetails.
func Valid(details CustomerDetails, items []cart.Item) bool {
	return ValidateDetails(details, items) == nil
}

// ValidPhone reports whether phone is a 10-digit Indian mobile number.
func ValidPhone(phone string) bool {
	return formValidator.Var(phone, TagIndianPhone) == nil
}

func formError(message, field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
