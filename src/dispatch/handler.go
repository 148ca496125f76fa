package dispatch

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mitraverify/verifyd/src/bus"
	"github.com/mitraverify/verifyd/src/orchestrator"
	"github.com/mitraverify/verifyd/src/settings"
	"github.com/mitraverify/verifyd/src/stats"
)

// Inbound message actions. The enum is closed: anything else is rejected.
const (
	actionVerifyContent  = "verifyContent"
	actionGetSettings    = "getSettings"
	actionUpdateSettings = "updateSettings"
	actionGetStats       = "getStats"
	actionClearCache     = "clearCache"
	actionReportFeedback = "reportFeedback"
)

// FeedbackSender forwards user feedback to the backend.
type FeedbackSender interface {
	SendFeedback(ctx context.Context, feedback string) error
}

// Handler translates the five trigger sources (context menus, keyboard
// commands, runtime messages, tab navigation, popup calls over the same
// channel) into orchestrator calls.
type Handler struct {
	orch     *orchestrator.Orchestrator
	settings *settings.Store
	stats    *stats.Tracker
	feedback FeedbackSender
	bus      bus.Bus

	sanitizer    *bluemonday.Policy
	dashboardURL string
}

func NewHandler(orch *orchestrator.Orchestrator, sets *settings.Store, st *stats.Tracker, feedback FeedbackSender, b bus.Bus, dashboardURL string) *Handler {
	return &Handler{
		orch:         orch,
		settings:     sets,
		stats:        st,
		feedback:     feedback,
		bus:          b,
		sanitizer:    bluemonday.StrictPolicy(),
		dashboardURL: dashboardURL,
	}
}

type messageRequest struct {
	Action      string                 `json:"action" binding:"required"`
	TabID       int                    `json:"tabId"`
	ContentType string                 `json:"contentType"`
	Data        map[string]interface{} `json:"data"`
	Settings    json.RawMessage        `json:"settings"`
	Feedback    string                 `json:"feedback"`
}

// HandleMessage routes one runtime message. The response goes out only after
// the action fully resolves, mirroring the always-async channel contract.
func (h *Handler) HandleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch req.Action {
	case actionVerifyContent:
		if req.ContentType == "" || req.Data == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "verifyContent needs contentType and data"})
			return
		}
		result := h.orch.Verify(c.Request.Context(), req.ContentType, h.sanitizePayload(req.Data), req.TabID)
		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})

	case actionGetSettings:
		c.JSON(http.StatusOK, gin.H{"success": true, "settings": h.settings.Get()})

	case actionUpdateSettings:
		if len(req.Settings) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "updateSettings needs a settings object"})
			return
		}
		if _, err := h.settings.Update(c.Request.Context(), req.Settings); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case actionGetStats:
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.stats.Snapshot()})

	case actionClearCache:
		h.orch.ClearCache()
		c.JSON(http.StatusOK, gin.H{"success": true})

	case actionReportFeedback:
		if req.Feedback == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reportFeedback needs feedback text"})
			return
		}
		if err := h.feedback.SendFeedback(c.Request.Context(), h.sanitizer.Sanitize(req.Feedback)); err != nil {
			log.Printf("dispatch: feedback: %v", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "could not deliver feedback"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown action: " + req.Action})
	}
}

// sanitizePayload strips markup from the free-text fields before they leave
// the process.
func (h *Handler) sanitizePayload(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok && (k == "content" || k == "text" || k == "title") {
			out[k] = h.sanitizer.Sanitize(s)
			continue
		}
		out[k] = v
	}
	return out
}
