package notification

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"
)

// SMSNotifier logs outbound SMS messages instead of delivering them.
// Wire a real SMS gateway here when one is provisioned.
type SMSNotifier struct {
	From string
}

func NewSMSNotifier(from string) *SMSNotifier {
	return &SMSNotifier{From: from}
}

func (s *SMSNotifier) Send(noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("SMS notification requires 'To'")
	}

	body := notification.Body
	if noticeTemplate.Text != "" {
		tmpl, err := template.New("sms").Parse(noticeTemplate.Text)
		if err != nil {
			slog.Error("Failed to parse SMS template", "err", err)
			return err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, notification.Data); err != nil {
			slog.Error("Failed to execute SMS template", "err", err)
			return err
		}
		body = buf.String()
	}

	slog.Info("SMS send", "from", s.From, "to", notification.To, "noticeType", noticeType, "body", body)
	return nil
}
