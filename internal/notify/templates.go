package notify

import (
	"fmt"
	"strings"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/adapter/mail"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
)

// Welcome greets a freshly registered account.
func Welcome(account domain.Account) mail.Message {
	return mail.Message{
		To:      []string{account.Email},
		Subject: "Welcome to ARRAutomation!",
		HTML: fmt.Sprintf("<h3>Hi %s,</h3><p>Thank you for signing up.</p><p>Best,<br>ARRAutomation</p>",
			account.Name),
		Text: fmt.Sprintf("Hi %s,\n\nThank you for signing up.\n\nBest,\nARRAutomation", account.Name),
	}
}

// SignupAlert informs the operator about a new registration.
func SignupAlert(operator string, account domain.Account) mail.Message {
	return mail.Message{
		To:      []string{operator},
		Subject: "New User Signup",
		HTML: fmt.Sprintf("<p>New user registered:</p><ul><li>Name: %s</li><li>Mobile: %s</li><li>Email: %s</li></ul>",
			account.Name, account.Mobile, account.Email),
		Text: fmt.Sprintf("New user registered:\nName: %s\nMobile: %s\nEmail: %s",
			account.Name, account.Mobile, account.Email),
	}
}

// LoginAlert informs the operator about a successful login.
func LoginAlert(operator string, account domain.Account) mail.Message {
	return mail.Message{
		To:      []string{operator},
		Subject: "Login Notification - ARRAutomation",
		HTML:    fmt.Sprintf("<p>User <strong>%s</strong> logged in.</p>", account.Name),
		Text:    fmt.Sprintf("User %s logged in.", account.Name),
	}
}

// InquiryAlert forwards a contact submission to the operator. The
// subject carries the upper-cased service so inbox filters can sort it.
func InquiryAlert(operator string, inquiry domain.Inquiry) mail.Message {
	return mail.Message{
		To:      []string{operator},
		Subject: "New Inquiry: " + strings.ToUpper(inquiry.Service),
		HTML: fmt.Sprintf("<p><strong>From:</strong> %s (%s)</p><p><strong>Service:</strong> %s</p><p><strong>Message:</strong><br>%s</p>",
			inquiry.Name, inquiry.Email, inquiry.Service, inquiry.Message),
		Text: fmt.Sprintf("From: %s (%s)\nService: %s\n\nMessage:\n%s",
			inquiry.Name, inquiry.Email, inquiry.Service, inquiry.Message),
	}
}

// InquiryAck acknowledges a contact submission to its sender.
func InquiryAck(inquiry domain.Inquiry) mail.Message {
	return mail.Message{
		To:      []string{inquiry.Email},
		Subject: "We received your message - ARRAutomation",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for reaching out. I’ll get back to you soon.</p><p>- Arman</p>",
			inquiry.Name),
		Text: fmt.Sprintf("Hi %s,\n\nThanks for reaching out.\n\n- Arman", inquiry.Name),
	}
}
