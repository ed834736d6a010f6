// Package validation holds the field checks and formatters shared by the booking,
// payment, review and complaint endpoints. Every check is a pure function: predicates
// return bool, validators return a message for display ("" when the value is fine).
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex    = regexp.MustCompile(`^07[0-9]{8}$`)
	landlineRegex  = regexp.MustCompile(`^0[1-9][0-9]{8}$`)
	intlPhoneRegex = regexp.MustCompile(`^\+94[1-9][0-9]{8}$`)
	cardRegex      = regexp.MustCompile(`^[0-9]{13,19}$`)
	cvvRegex       = regexp.MustCompile(`^[0-9]{3,4}$`)
	expiryRegex    = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	nameRegex      = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]*$`)
)

const (
	MinNameLength    = 2
	MaxNameLength    = 50
	MinAddressLength = 10
	MaxAddressLength = 200
	MaxExpiryYears   = 10
)

// stripSeparators drops the spaces and dashes people type into phone and card fields.
func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// Required reports a message when value is blank after trimming.
func Required(field, value string) string {
	if strings.TrimSpace(value) == "" {
		return field + " is required"
	}
	return ""
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidPhone accepts Sri Lankan mobile (07XXXXXXXX), landline (0XXXXXXXXX)
// and international (+94XXXXXXXXX) numbers.
func IsValidPhone(phone string) bool {
	p := stripSeparators(phone)
	return mobileRegex.MatchString(p) || landlineRegex.MatchString(p) || intlPhoneRegex.MatchString(p)
}

// IsMobilePhone reports whether phone is a mobile number in local or +94 form.
func IsMobilePhone(phone string) bool {
	p := stripSeparators(phone)
	if strings.HasPrefix(p, "+94") {
		p = "0" + strings.TrimPrefix(p, "+94")
	}
	return mobileRegex.MatchString(p)
}

// LuhnCheck walks the digits right to left, doubling every second one.
func LuhnCheck(number string) bool {
	n := stripSeparators(number)
	if n == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(n) - 1; i >= 0; i-- {
		c := n[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func IsValidCardNumber(number string) bool {
	n := stripSeparators(number)
	return cardRegex.MatchString(n) && LuhnCheck(n)
}

func IsValidCVV(cvv string) bool {
	return cvvRegex.MatchString(strings.TrimSpace(cvv))
}

// parseExpiry returns the month and four-digit year of an MM/YY string.
func parseExpiry(expiry string) (int, int, bool) {
	m := expiryRegex.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return 0, 0, false
	}
	month, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	return month, 2000 + yy, true
}

// IsValidExpiry accepts MM/YY from the current month up to MaxExpiryYears ahead.
func IsValidExpiry(expiry string, now time.Time) bool {
	month, year, ok := parseExpiry(expiry)
	if !ok {
		return false
	}

	expires := year*12 + month
	current := now.Year()*12 + int(now.Month())
	if expires < current {
		return false
	}
	return expires <= current+MaxExpiryYears*12
}

func IsValidAddress(address string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(address))
	return n >= MinAddressLength && n <= MaxAddressLength
}

func IsValidName(name string) bool {
	n := strings.TrimSpace(name)
	l := utf8.RuneCountInString(n)
	return l >= MinNameLength && l <= MaxNameLength && nameRegex.MatchString(n)
}

// ValidateField checks a single form field by name and returns the message to show,
// or "" when the value is acceptable. Unknown fields only get the required check.
func ValidateField(field, value string, now time.Time) string {
	label := fieldLabels[field]
	if label == "" {
		label = field
	}
	if msg := Required(label, value); msg != "" {
		return msg
	}

	switch field {
	case "name", "customerName", "cardHolder":
		if !IsValidName(value) {
			return label + " must be 2-50 letters"
		}
	case "email", "customerEmail":
		if !IsValidEmail(value) {
			return "Please enter a valid email address"
		}
	case "phone", "customerPhone":
		if !IsValidPhone(value) {
			return "Please enter a valid Sri Lankan phone number (07XXXXXXXX, 0XXXXXXXXX or +94XXXXXXXXX)"
		}
	case "address", "customerAddress":
		if !IsValidAddress(value) {
			return "Address must be between 10 and 200 characters"
		}
	case "cardNumber":
		n := stripSeparators(value)
		if !cardRegex.MatchString(n) {
			return "Card number must be 13-19 digits"
		}
		if !LuhnCheck(n) {
			return "Invalid card number"
		}
	case "cvv":
		if !IsValidCVV(value) {
			return "CVV must be 3 or 4 digits"
		}
	case "expiry", "expiryDate":
		if _, _, ok := parseExpiry(value); !ok {
			return "Expiry must be in MM/YY format"
		}
		if !IsValidExpiry(value, now) {
			return "Card is expired or the expiry date is too far in the future"
		}
	}
	return ""
}

var fieldLabels = map[string]string{
	"name":            "Name",
	"customerName":    "Name",
	"cardHolder":      "Card holder name",
	"email":           "Email",
	"customerEmail":   "Email",
	"phone":           "Phone number",
	"customerPhone":   "Phone number",
	"address":         "Address",
	"customerAddress": "Address",
	"cardNumber":      "Card number",
	"cvv":             "CVV",
	"expiry":          "Expiry date",
	"expiryDate":      "Expiry date",
}

// ValidateFields runs ValidateField over a form and returns only the failing fields.
func ValidateFields(fields map[string]string, now time.Time) map[string]string {
	errs := make(map[string]string)
	for field, value := range fields {
		if msg := ValidateField(field, value, now); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
