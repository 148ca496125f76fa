package orchestrator

import (
	"context"
	"log"

	"github.com/mitraverify/verifyd/src/badge"
	"github.com/mitraverify/verifyd/src/bus"
	"github.com/mitraverify/verifyd/src/cache"
	"github.com/mitraverify/verifyd/src/dedup"
	"github.com/mitraverify/verifyd/src/keys"
	"github.com/mitraverify/verifyd/src/notify"
	"github.com/mitraverify/verifyd/src/settings"
	"github.com/mitraverify/verifyd/src/stats"
	"github.com/mitraverify/verifyd/src/types"
)

// RemoteVerifier is the opaque verification backend.
type RemoteVerifier interface {
	Verify(ctx context.Context, contentType string, payload map[string]interface{}) (types.VerificationResult, error)
}

// Orchestrator runs the verification pipeline: cache lookup, in-flight
// deduplication, the remote call, then the observable side effects (cache,
// stats, notification, badge, result push). It holds non-owning references
// to its collaborators; each owns its own state.
type Orchestrator struct {
	cache    *cache.Store
	dedup    *dedup.Tracker
	stats    *stats.Tracker
	settings *settings.Store
	remote   RemoteVerifier
	badges   *badge.Manager
	sinks    []notify.Sink
	bus      bus.Bus

	dashboardURL string
}

type Config struct {
	Cache        *cache.Store
	Dedup        *dedup.Tracker
	Stats        *stats.Tracker
	Settings     *settings.Store
	Remote       RemoteVerifier
	Badges       *badge.Manager
	Sinks        []notify.Sink
	Bus          bus.Bus
	DashboardURL string
}

func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		cache:        cfg.Cache,
		dedup:        cfg.Dedup,
		stats:        cfg.Stats,
		settings:     cfg.Settings,
		remote:       cfg.Remote,
		badges:       cfg.Badges,
		sinks:        cfg.Sinks,
		bus:          cfg.Bus,
		dashboardURL: cfg.DashboardURL,
	}
}

// resultPush is the verificationResult payload sent back to the origin tab.
type resultPush struct {
	Result   types.VerificationResult `json:"result"`
	CacheKey string                   `json:"cacheKey"`
}

// Verify resolves one verification request. originTabID zero means the
// request has no originating tab (popup, options page).
//
// A second call for a key whose remote request is still outstanding gets the
// synthetic pending result; it is not queued behind the first. Failures are
// never fatal: they come back as an error-status result.
func (o *Orchestrator) Verify(ctx context.Context, contentType string, payload map[string]interface{}, originTabID int) types.VerificationResult {
	cfg := o.settings.Get()

	if !methodEnabled(cfg.Methods, contentType) {
		return types.VerificationResult{
			Status:      types.StatusInsufficientInfo,
			Explanation: "verification for this content type is disabled in settings",
		}
	}

	key := keys.For(contentType, payload)

	if cached, ok := o.cache.Get(key); ok {
		return cached
	}

	if !o.dedup.TryAcquire(key) {
		return types.Pending()
	}
	defer o.dedup.Release(key)

	result, err := o.remote.Verify(ctx, contentType, payload)
	if err != nil {
		log.Printf("orchestrator: verify %s: %v", key, err)
		return types.VerificationResult{Status: types.StatusError, Explanation: "verification failed, please try again"}
	}

	o.cache.Put(key, result)
	o.stats.Record(result)
	notify.Emit(ctx, o.sinks, result, cfg, o.dashboardURL)

	if originTabID != 0 {
		if result.Flagged() && cfg.UI.ShowBadge {
			o.badges.Increment(ctx, originTabID)
		}
		if err := o.bus.Push(ctx, types.Envelope{
			Action:  types.PushVerificationResult,
			TabID:   originTabID,
			Payload: resultPush{Result: result, CacheKey: key},
		}); err != nil {
			log.Printf("orchestrator: push result to tab %d: %v", originTabID, err)
		}
	}

	return result
}

// ClearCache drops every cached result.
func (o *Orchestrator) ClearCache() {
	o.cache.Clear()
}

func methodEnabled(m types.MethodSettings, contentType string) bool {
	switch contentType {
	case types.ContentText, types.ContentPage:
		return m.Text
	case types.ContentImage:
		return m.Image
	case types.ContentURL:
		return m.URL
	default:
		return true
	}
}
