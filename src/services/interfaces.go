package services

// EmailService is the outbound mail transport used by the spend report.
type EmailService interface {
	SendReport(toEmail, subject, body string) error
}
