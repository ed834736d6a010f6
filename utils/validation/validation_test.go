package validation

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func TestLuhnCheck(t *testing.T) {
	assert.True(t, LuhnCheck("4111111111111111"))
	assert.False(t, LuhnCheck("4111111111111112"))
	assert.True(t, LuhnCheck("4111 1111 1111 1111"))
	assert.True(t, LuhnCheck("5555555555554444"))
	assert.False(t, LuhnCheck(""))
	assert.False(t, LuhnCheck("4111a11111111111"))
}

func TestIsValidCardNumber(t *testing.T) {
	assert.True(t, IsValidCardNumber("4111-1111-1111-1111"))
	assert.False(t, IsValidCardNumber("4111111111111112"))
	// Luhn-valid but too short for a card.
	assert.False(t, IsValidCardNumber("0"))
}

func TestIsValidExpiry(t *testing.T) {
	assert.False(t, IsValidExpiry("01/20", fixedNow), "expired")
	assert.True(t, IsValidExpiry("12/35", fixedNow))
	assert.True(t, IsValidExpiry("10/26", fixedNow), "current month is still valid")
	assert.False(t, IsValidExpiry("09/26", fixedNow))
	assert.True(t, IsValidExpiry("10/36", fixedNow), "exactly ten years out")
	assert.False(t, IsValidExpiry("11/36", fixedNow), "more than ten years out")
	assert.False(t, IsValidExpiry("13/30", fixedNow))
	assert.False(t, IsValidExpiry("1230", fixedNow))
}

func TestIsValidPhone(t *testing.T) {
	cases := map[string]bool{
		"0771234567":      true,
		"077 123 4567":    true,
		"0112345678":      true,
		"+94771234567":    true,
		"+94 77 123-4567": true,
		"12345":           false,
		"0071234567":      false,
		"+9477123456":     false,
		"07712345678":     false,
		"":                false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidPhone(in), in)
	}

	assert.True(t, IsMobilePhone("+94771234567"))
	assert.False(t, IsMobilePhone("0112345678"))
}

func TestNameAddressEmailCVV(t *testing.T) {
	assert.True(t, IsValidName("Nimal Perera"))
	assert.True(t, IsValidName("O'Neil"))
	assert.False(t, IsValidName("A"))
	assert.False(t, IsValidName("R2D2"))
	assert.False(t, IsValidName("Abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"))

	assert.True(t, IsValidAddress("12 Galle Road, Colombo 03"))
	assert.False(t, IsValidAddress("Colombo"))

	assert.True(t, IsValidEmail("someone@example.lk"))
	assert.False(t, IsValidEmail("someone@"))

	assert.True(t, IsValidCVV("123"))
	assert.True(t, IsValidCVV("1234"))
	assert.False(t, IsValidCVV("12"))
	assert.False(t, IsValidCVV("12a"))
}

func TestValidateField(t *testing.T) {
	assert.Equal(t, "", ValidateField("cardNumber", "4111111111111111", fixedNow))
	assert.Equal(t, "Invalid card number", ValidateField("cardNumber", "4111111111111112", fixedNow))
	assert.Equal(t, "Card number is required", ValidateField("cardNumber", "   ", fixedNow))
	assert.Equal(t, "Expiry must be in MM/YY format", ValidateField("expiry", "2030-01", fixedNow))
	assert.NotEmpty(t, ValidateField("expiry", "01/20", fixedNow))
	assert.NotEmpty(t, ValidateField("phone", "12345", fixedNow))
	assert.Equal(t, "", ValidateField("notes", "anything", fixedNow))

	errs := ValidateFields(map[string]string{
		"name":  "Kamal",
		"email": "bad",
		"cvv":   "1",
	}, fixedNow)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "cvv")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111 1111 1111 1111"))
	assert.Equal(t, "1111", CardLast4("4111111111111111"))
	assert.Equal(t, "077 123 4567", FormatPhone("0771234567"))
	assert.Equal(t, "+94 77 123 4567", FormatPhone("+94771234567"))
	assert.Equal(t, "12345", FormatPhone(" 12345 "))
	assert.Equal(t, "12/25", FormatExpiry("1225"))
	assert.Equal(t, "12/25", FormatExpiry("12/25"))
	assert.Equal(t, "1", FormatExpiry("1"))
}

func TestValidateBookingDate(t *testing.T) {
	latest := BookingHorizon(fixedNow)

	assert.Equal(t, "", ValidateBookingDate(fixedNow, fixedNow, latest))
	assert.Equal(t, "", ValidateBookingDate(fixedNow.AddDate(0, 0, 90), fixedNow, latest))
	assert.Equal(t, "Booking date cannot be in the past", ValidateBookingDate(fixedNow.AddDate(0, 0, -1), fixedNow, latest))
	assert.NotEmpty(t, ValidateBookingDate(fixedNow.AddDate(0, 0, 91), fixedNow, latest))
	assert.NotEmpty(t, ValidateBookingDate(time.Time{}, fixedNow, latest))

	rental := RentalHorizon(fixedNow)
	assert.Equal(t, "", ValidateBookingDate(fixedNow.AddDate(0, 6, 0), fixedNow, rental))
	assert.NotEmpty(t, ValidateBookingDate(fixedNow.AddDate(0, 6, 1), fixedNow, rental))
}

func TestRefundEligibility(t *testing.T) {
	d := RefundEligibility(fixedNow.Add(23*time.Hour), fixedNow, 10000)
	assert.False(t, d.Eligible)
	assert.Zero(t, d.Amount)

	d = RefundEligibility(fixedNow.Add(25*time.Hour), fixedNow, 10000)
	assert.True(t, d.Eligible)
	assert.Equal(t, 50, d.Percentage)
	assert.Equal(t, 5000.0, d.Amount)

	d = RefundEligibility(fixedNow.Add(50*time.Hour), fixedNow, 10000)
	assert.Equal(t, 75, d.Percentage)
	assert.Equal(t, 7500.0, d.Amount)

	d = RefundEligibility(fixedNow.Add(96*time.Hour), fixedNow, 10000)
	assert.Equal(t, 100, d.Percentage)
	assert.Equal(t, 10000.0, d.Amount)

	d = RefundEligibility(fixedNow.Add(96*time.Hour), fixedNow, 0)
	assert.False(t, d.Eligible)
}

func TestValidatePaymentAmount(t *testing.T) {
	assert.Equal(t, "", ValidatePaymentAmount("basic", 5000))
	assert.NotEmpty(t, ValidatePaymentAmount("basic", 500))
	assert.NotEmpty(t, ValidatePaymentAmount("basic", 60000))
	assert.Equal(t, "", ValidatePaymentAmount("premium", 60000))
	assert.NotEmpty(t, ValidatePaymentAmount("gold", 5000))
	assert.NotEmpty(t, ValidatePaymentAmount("standard", -1))
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	type form struct {
		Phone  string `validate:"lkphone"`
		Card   string `validate:"luhn"`
		CVV    string `validate:"cvv"`
		Holder string `validate:"personname"`
	}

	assert.NoError(t, v.Struct(form{Phone: "0771234567", Card: "4111111111111111", CVV: "123", Holder: "Nimal Perera"}))
	assert.Error(t, v.Struct(form{Phone: "12345", Card: "4111111111111111", CVV: "123", Holder: "Nimal Perera"}))
	assert.Error(t, v.Struct(form{Phone: "0771234567", Card: "4111111111111112", CVV: "123", Holder: "Nimal Perera"}))
}
