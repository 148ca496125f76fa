package dispatch

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mitraverify/verifyd/src/types"
)

// Trigger event types delivered by the host adapter.
const (
	eventContextMenu = "contextMenu"
	eventCommand     = "command"
	eventTabUpdated  = "tabUpdated"
)

// Context menu entries registered by the host adapter.
const (
	menuVerifySelection = "verify-selection"
	menuVerifyImage     = "verify-image"
	menuVerifyLink      = "verify-link"
	menuVerifyPage      = "verify-page"
)

// Keyboard commands.
const (
	commandToggleAutoScan  = "toggle-auto-scan"
	commandOpenReport      = "open-report"
	commandVerifySelection = "verify-selection"
)

type eventRequest struct {
	Type  string `json:"type" binding:"required"`
	TabID int    `json:"tabId"`

	// contextMenu fields
	MenuID        string `json:"menuId"`
	SelectionText string `json:"selectionText"`
	SrcURL        string `json:"srcUrl"`
	LinkURL       string `json:"linkUrl"`
	PageURL       string `json:"pageUrl"`

	// command fields
	Command string `json:"command"`

	// tabUpdated fields
	URL    string `json:"url"`
	Status string `json:"status"`
}

// HandleEvent routes context-menu clicks, keyboard commands and tab
// navigation events.
func (h *Handler) HandleEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch req.Type {
	case eventContextMenu:
		h.handleContextMenu(c, req)
	case eventCommand:
		h.handleCommand(c, req)
	case eventTabUpdated:
		h.handleTabUpdated(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown event type: " + req.Type})
	}
}

// handleContextMenu maps a menu click to a (contentType, payload) pair and
// verifies it.
func (h *Handler) handleContextMenu(c *gin.Context, req eventRequest) {
	var contentType string
	var payload map[string]interface{}

	switch req.MenuID {
	case menuVerifySelection:
		contentType = types.ContentText
		payload = map[string]interface{}{"content": req.SelectionText}
	case menuVerifyImage:
		contentType = types.ContentImage
		payload = map[string]interface{}{"imageUrl": req.SrcURL}
	case menuVerifyLink:
		contentType = types.ContentURL
		payload = map[string]interface{}{"url": req.LinkURL}
	case menuVerifyPage:
		contentType = types.ContentPage
		payload = map[string]interface{}{"url": req.PageURL}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown menu id: " + req.MenuID})
		return
	}

	result := h.orch.Verify(c.Request.Context(), contentType, h.sanitizePayload(payload), req.TabID)
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func (h *Handler) handleCommand(c *gin.Context, req eventRequest) {
	ctx := c.Request.Context()

	switch req.Command {
	case commandToggleAutoScan:
		next, err := h.settings.SetAutoScan(ctx, !h.settings.Get().AutoScan)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.bus.Push(ctx, types.Envelope{
			Action:  types.PushToggleAutoScan,
			TabID:   req.TabID,
			Payload: map[string]bool{"enabled": next.AutoScan},
		})
		c.JSON(http.StatusOK, gin.H{"success": true, "enabled": next.AutoScan})

	case commandOpenReport:
		h.bus.Push(ctx, types.Envelope{
			Action:  "openReport",
			Payload: map[string]string{"url": h.dashboardURL},
		})
		c.JSON(http.StatusOK, gin.H{"success": true})

	case commandVerifySelection:
		// Round trip: ask the tab's content script for the current selection;
		// it comes back as a verifyContent message.
		h.bus.Push(ctx, types.Envelope{Action: "verifySelection", TabID: req.TabID})
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown command: " + req.Command})
	}
}

// handleTabUpdated pushes startAutoScan to a tab that finished loading a
// scannable page.
func (h *Handler) handleTabUpdated(c *gin.Context, req eventRequest) {
	if req.Status != "complete" {
		c.JSON(http.StatusOK, gin.H{"success": true, "scanning": false})
		return
	}

	cfg := h.settings.Get()
	if !cfg.AutoScan || !SiteEnabled(cfg, req.URL) || !ShouldAutoScan(req.URL) {
		c.JSON(http.StatusOK, gin.H{"success": true, "scanning": false})
		return
	}

	h.bus.Push(c.Request.Context(), types.Envelope{
		Action:  types.PushStartAutoScan,
		TabID:   req.TabID,
		Payload: map[string]interface{}{"settings": cfg},
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "scanning": true})
}
