package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mitraverify/verifyd/src/bus"
	"github.com/mitraverify/verifyd/src/types"
)

// Notification is a rendered user-facing alert. The host adapter shows it
// with two actions: view details (opens DetailsURL) and dismiss.
type Notification struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	DetailsURL string   `json:"detailsUrl"`
	Actions    []string `json:"actions"`
}

// ShouldNotify applies the notification policy: only flagged content, only
// above the user's confidence threshold, only when notifications are on.
func ShouldNotify(result types.VerificationResult, settings types.UserSettings) bool {
	return result.Flagged() &&
		result.Confidence >= settings.ConfidenceThreshold &&
		settings.ShowNotifications
}

// Render maps a result to a title/message pair.
func Render(result types.VerificationResult, dashboardURL string) Notification {
	var title, message string
	switch result.Status {
	case types.StatusFalse:
		title = "Misinformation detected"
		message = fmt.Sprintf("This content appears to be false (%.0f%% confidence).", result.Confidence*100)
	case types.StatusQuestionable:
		title = "Questionable content"
		message = fmt.Sprintf("This content could not be confirmed (%.0f%% confidence).", result.Confidence*100)
	default:
		title = "Verification complete"
		message = "See the dashboard for details."
	}
	if result.Explanation != "" {
		message += " " + result.Explanation
	}

	return Notification{
		ID:         uuid.NewString(),
		Title:      title,
		Message:    message,
		DetailsURL: dashboardURL,
		Actions:    []string{"view details", "dismiss"},
	}
}

// Sink delivers a rendered notification. Delivery is fire-and-forget: there
// is no retry or queueing, a failed send is only logged.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Emit renders and delivers through every sink when the policy fires.
func Emit(ctx context.Context, sinks []Sink, result types.VerificationResult, settings types.UserSettings, dashboardURL string) {
	if !ShouldNotify(result, settings) {
		return
	}
	n := Render(result, dashboardURL)
	for _, s := range sinks {
		if err := s.Notify(ctx, n); err != nil {
			log.Printf("notify: %v", err)
		}
	}
}

// BusSink pushes the notification to the host adapter, which surfaces it via
// the browser notification API.
type BusSink struct {
	Bus bus.Bus
}

func (s BusSink) Notify(ctx context.Context, n Notification) error {
	return s.Bus.Push(ctx, types.Envelope{Action: "showNotification", Payload: n})
}
