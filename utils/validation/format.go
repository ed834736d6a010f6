package validation

import (
	"strings"
)

// FormatCardNumber groups digits in fours: "4111111111111111" -> "4111 1111 1111 1111".
func FormatCardNumber(number string) string {
	digits := onlyDigits(number)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MaskCardNumber keeps the last four digits: "**** **** **** 1111".
func MaskCardNumber(number string) string {
	digits := onlyDigits(number)
	if len(digits) < 4 {
		return strings.Repeat("*", len(digits))
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

func CardLast4(number string) string {
	digits := onlyDigits(number)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// FormatPhone renders 0771234567 as "077 123 4567" and +94771234567 as "+94 77 123 4567".
// Values that are not valid numbers come back trimmed but otherwise untouched.
func FormatPhone(phone string) string {
	p := stripSeparators(phone)
	switch {
	case intlPhoneRegex.MatchString(p):
		return "+94 " + p[3:5] + " " + p[5:8] + " " + p[8:]
	case mobileRegex.MatchString(p), landlineRegex.MatchString(p):
		return p[:3] + " " + p[3:6] + " " + p[6:]
	}
	return strings.TrimSpace(phone)
}

// FormatExpiry turns partial input like "1225" or "12/25" into "12/25".
func FormatExpiry(input string) string {
	digits := onlyDigits(input)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
