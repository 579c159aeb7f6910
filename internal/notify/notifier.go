// Package notify delivers opportunity alerts over one or more channels
// (Discord webhook, SMTP email). A sender failure never blocks the other
// channels or the detection pipeline.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "discord").
	Name() string
}

// Notifier dispatches opportunity alerts to its senders, suppressing
// opportunities below the configured quality floor so operators only hear
// about actionable ones.
type Notifier struct {
	senders    []Sender
	minQuality float64
	logger     *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only
// opportunities with QualityScore >= minQuality are announced.
func NewNotifier(senders []Sender, minQuality float64, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders:    senders,
		minQuality: minQuality,
		logger:     logger.With(slog.String("component", "notifier")),
	}
}

// OpportunitiesDetected announces the high-quality subset of one run's
// opportunities. It is a no-op when nothing clears the quality floor or no
// senders are configured.
func (n *Notifier) OpportunitiesDetected(ctx context.Context, opps []domain.Opportunity) error {
	if len(n.senders) == 0 {
		return nil
	}

	notable := make([]domain.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if opp.QualityScore >= n.minQuality {
			notable = append(notable, opp)
		}
	}
	if len(notable) == 0 {
		n.logger.DebugContext(ctx, "no opportunities above quality floor",
			slog.Int("total", len(opps)),
			slog.Float64("min_quality", n.minQuality),
		)
		return nil
	}

	title := fmt.Sprintf("%d arbitrage opportunit%s detected", len(notable), plural(len(notable), "y", "ies"))
	return n.dispatch(ctx, title, formatDigest(notable))
}

// dispatch iterates over all senders and sends the notification. Errors from
// individual senders are collected and returned as a combined error; a single
// sender failure does not prevent delivery to the remaining senders.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			n.logger.DebugContext(ctx, "notification sent",
				slog.String("sender", s.Name()),
				slog.String("title", title),
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// formatDigest renders a plain-text summary, best opportunities first. The
// input is already quality-sorted by the engine.
func formatDigest(opps []domain.Opportunity) string {
	const maxListed = 5

	var b strings.Builder
	for i, opp := range opps {
		if i == maxListed {
			fmt.Fprintf(&b, "... and %d more\n", len(opps)-maxListed)
			break
		}
		fmt.Fprintf(&b, "[%s] %.1f%% net, quality %.0f, risk %s\n",
			opp.Strategy, opp.NetProfitPct*100, opp.QualityScore, opp.RiskLevel)
		for _, m := range opp.Markets {
			fmt.Fprintf(&b, "  %s: %s (%s @ %.2f)\n", m.Venue, m.Question, m.Outcome, m.Price)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
