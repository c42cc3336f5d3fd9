package notification

// NotificationSystem represents a delivery channel (e.g., email, SMS).
type NotificationSystem string

// NoticeType represents a type of notification (e.g., "otp_code").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"

	// OtpCodeNotice carries a one-time passcode to a contact target
	OtpCodeNotice NoticeType = "otp_code"
)

// NotificationData is the per-send payload handed to a notifier
type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address, phone number)
	Subject string            // Optional: subject for notifications like email
	Body    string            // The content or message to send
	Data    map[string]string // Template data (e.g., "Code", "Purpose")
}

// NoticeTemplate holds the registered template content for a notice
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// Notifier delivers a rendered notice over one delivery channel
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
