// Package notify delivers outbound notifications about lifecycle events.
// Senders run strictly after the triggering transaction has committed; a
// delivery failure is logged by the caller, never rolled back.
package notify

import (
	"context"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
)

// Kind identifies the notification template to render.
type Kind string

// Notification kinds emitted by the services.
const (
	KindPolicyIssued        Kind = "policy_issued"
	KindPolicyStatusChanged Kind = "policy_status_changed"
	KindClaimFiled          Kind = "claim_filed"
	KindClaimDecided        Kind = "claim_decided"
	KindClaimPaid           Kind = "claim_paid"
)

// Sender delivers a notification to a recipient. The payload carries the
// template variables (policy number, amounts, names).
type Sender interface {
	Send(ctx context.Context, recipient string, kind Kind, payload map[string]any) error
}

// LogSender writes notifications to the structured log instead of delivering
// them. It is the default sender until a mail/SMS integration is configured,
// and it is what local development and tests run.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a Sender that logs every notification.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the notification and always succeeds.
func (s *LogSender) Send(_ context.Context, recipient string, kind Kind, payload map[string]any) error {
	s.log.Info("notification sent", map[string]interface{}{
		"recipient": recipient,
		"kind":      string(kind),
		"payload":   payload,
	})
	return nil
}
