package notify

import (
	"context"

	"go.uber.org/zap"
)

var _ Sender = (*LogSender)(nil)

// LogSender writes notifications to the log instead of delivering them.
// It is the default transport for deployments without an email or SMS
// provider configured.
type LogSender struct {
	lg *zap.Logger
}

func NewLogSender(lg *zap.Logger) *LogSender {
	return &LogSender{lg: lg}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.lg.Info("notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
