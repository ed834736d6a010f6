package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/joy095/studio/config"
	"github.com/joy095/studio/logger"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	bookingConfirmationTemplate = "booking_confirmation.html"
	refundRequestedTemplate     = "refund_requested.html"
	paymentReceiptTemplate      = "payment_receipt.html"
)

// BookingEmail is the data for booking notices.
type BookingEmail struct {
	CustomerName string
	PackageName  string
	BookingID    string
	Date         string
	StartTime    string
	Total        string
	Status       string
}

// RefundEmail is the data for refund notices.
type RefundEmail struct {
	CustomerName string
	BookingID    string
	Amount       string
	Percentage   int
}

// PaymentEmail is the data for payment receipts.
type PaymentEmail struct {
	CustomerName  string
	BookingID     string
	TransactionID string
	Amount        string
	CardMasked    string
	Outstanding   string
}

// Enabled reports whether SMTP is configured.
func Enabled() bool {
	return config.GetEnv("SMTP_HOST", "") != ""
}

// Render executes a named template into HTML.
func Render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	return body.String(), nil
}

func sendEmail(toEmail, subject, templateName string, data any) error {
	if !Enabled() {
		logger.InfoLogger.Infof("SMTP not configured, skipping %q email to %s", subject, toEmail)
		return nil
	}

	body, err := Render(templateName, data)
	if err != nil {
		logger.ErrorLogger.Error(err)
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", config.GetEnv("FROM_EMAIL", "no-reply@studio.local"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	smtpHost := config.GetEnv("SMTP_HOST", "")
	port, err := strconv.Atoi(config.GetEnv("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	dialer := gomail.NewDialer(smtpHost, port, config.GetEnv("SMTP_USERNAME", ""), config.GetEnv("SMTP_PASSWORD", ""))
	dialer.TLSConfig = &tls.Config{ServerName: smtpHost}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Sent %q email to %s", subject, toEmail)
	return nil
}

// SendAsync sends in the background. Mail failures never fail a request.
func SendAsync(send func() error) {
	go func() {
		if err := send(); err != nil {
			logger.WarnLogger.Warnf("Background email failed: %v", err)
		}
	}()
}

func SendBookingConfirmation(to string, data BookingEmail) error {
	return sendEmail(to, "Your studio booking", bookingConfirmationTemplate, data)
}

func SendRefundRequested(to string, data RefundEmail) error {
	return sendEmail(to, "Refund request received", refundRequestedTemplate, data)
}

func SendPaymentReceipt(to string, data PaymentEmail) error {
	return sendEmail(to, "Payment receipt", paymentReceiptTemplate, data)
}
