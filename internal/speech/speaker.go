package speech

import (
	"context"
	"log/slog"
)

// DefaultLocale is the voice used for announcements unless configured
// otherwise.
const DefaultLocale = "hi-IN"

// DefaultRate is the speaking rate for announcements.
const DefaultRate = 0.8

// Speaker renders assistant announcements through the TTS sidecar. It
// reads, but does not own, the mute flag: when muted it drops the
// announcement silently. Announcements are fire-and-forget; failures are
// logged and never surface to the caller.
type Speaker struct {
	client *Client
	muted  func() bool
	locale string
	rate   float64
	logger *slog.Logger
}

// NewSpeaker creates a Speaker. muted is consulted on every announcement;
// pass the settings-backed reader. An empty locale falls back to
// DefaultLocale.
func NewSpeaker(client *Client, muted func() bool, locale string) *Speaker {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Speaker{
		client: client,
		muted:  muted,
		locale: locale,
		rate:   DefaultRate,
		logger: slog.Default(),
	}
}

// Announce speaks text unless output is muted.
func (s *Speaker) Announce(ctx context.Context, text string) {
	if s.muted != nil && s.muted() {
		return
	}
	if err := s.client.Speak(ctx, text, s.locale, s.rate); err != nil {
		s.logger.Warn("announcement failed", "error", err)
	}
}
