package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// Notifier delivers candidate-facing messages. Delivery is fire-and-forget:
// a failed send is logged and never aborts session creation.
type Notifier interface {
	SendVerification(email, name, link string) bool
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that writes the message to the log.
// The real mail provider is an external collaborator behind this interface.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendVerification(email, name, link string) bool {
	log.Printf("📧 Verification email\nTo: %s\nSubject: Verify Your Interview Session\n\nHi %s,\n\nClick the link below to start your interview:\n%s\n\nThis link expires in 24 hours.\n", email, name, link)
	return true
}

// GenerateVerificationToken returns a 64-character hex token.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// BuildVerificationLink builds the candidate-facing link that redeems a
// pending session.
func BuildVerificationLink(baseURL, token, interviewID string) string {
	return fmt.Sprintf("%s/interview/verify?token=%s&id=%s", baseURL, token, interviewID)
}
