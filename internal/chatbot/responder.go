// Package chatbot answers support messages from a fixed keyword table.
package chatbot

import "strings"

const fallbackReply = "Thanks for your message 🙌 Our team will get back to you shortly."

type rule struct {
	keywords []string
	reply    string
}

// Responder maps visitor messages to canned replies. The first rule
// with a matching keyword wins; anything else gets the fallback.
type Responder struct {
	rules []rule
}

// NewResponder builds the responder with the site's canned answers.
func NewResponder() *Responder {
	return &Responder{
		rules: []rule{
			{
				keywords: []string{"mobile", "number", "whatsapp", "contact"},
				reply:    "You can contact Arman on WhatsApp: +91-9416748873.",
			},
			{
				keywords: []string{"service", "services", "offer"},
				reply:    "ARRAutomation provides QA Automation, Manual Testing, Cypress Automation, and HR Automation services.",
			},
			{
				keywords: []string{"price", "cost", "charges"},
				reply:    "Our pricing depends on project scope. Please contact us on WhatsApp for a quick quote.",
			},
		},
	}
}

// Reply returns the canned answer for a visitor message.
func (r *Responder) Reply(message string) string {
	text := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.reply
			}
		}
	}
	return fallbackReply
}
