package types

import "time"

// Verification statuses returned by the MitraVerify backend. Pending is
// synthetic: it is produced locally when a request is already in flight and
// is never cached or sent over the wire.
const (
	StatusVerified         = "verified"
	StatusQuestionable     = "questionable"
	StatusFalse            = "false"
	StatusInsufficientInfo = "insufficient_info"
	StatusError            = "error"
	StatusPending          = "pending"
)

// Content types accepted by Verify.
const (
	ContentText  = "text"
	ContentImage = "image"
	ContentURL   = "url"
	ContentPage  = "page"
)

// VerificationResult is immutable once produced.
type VerificationResult struct {
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
}

// Pending returns the placeholder result for a key that already has an
// outstanding remote call. Callers are expected to re-request later.
func Pending() VerificationResult {
	return VerificationResult{Status: StatusPending, Explanation: "verification already in progress"}
}

// Flagged reports whether the result marks content worth alerting on.
func (r VerificationResult) Flagged() bool {
	return r.Status == StatusFalse || r.Status == StatusQuestionable
}

// MethodSettings toggles individual verification methods.
type MethodSettings struct {
	Text  bool `json:"text"`
	Image bool `json:"image"`
	URL   bool `json:"url"`
}

// UISettings holds presentation toggles honored by the host adapter.
type UISettings struct {
	ShowBadge bool `json:"showBadge"`
}

// UserSettings is the persisted user configuration. New fields get their
// defaults on load without discarding previously stored overrides.
type UserSettings struct {
	AutoScan            bool            `json:"autoScan"`
	ShowNotifications   bool            `json:"showNotifications"`
	ConfidenceThreshold float64         `json:"confidenceThreshold"`
	SiteEnabled         map[string]bool `json:"siteEnabled"`
	Methods             MethodSettings  `json:"methods"`
	UI                  UISettings      `json:"ui"`
}

// ExtensionStats are the counters persisted across sessions.
type ExtensionStats struct {
	TotalVerifications     int64      `json:"totalVerifications"`
	MisinformationDetected int64      `json:"misinformationDetected"`
	LastVerificationTime   *time.Time `json:"lastVerificationTime"`
}

// Envelope is an outbound push to an extension context. TabID zero means
// broadcast.
type Envelope struct {
	Action  string      `json:"action"`
	TabID   int         `json:"tabId,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Outbound push actions.
const (
	PushVerificationResult = "verificationResult"
	PushStartAutoScan      = "startAutoScan"
	PushToggleAutoScan     = "toggleAutoScan"
	PushSetBadge           = "setBadge"
)
