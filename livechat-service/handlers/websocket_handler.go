package handlers

import (
	"github.com/gin-gonic/gin"

	"cloudphone-backend/livechat-service/services"
)

type WebSocketHandler struct {
	hub *services.EventHub
}

func NewWebSocketHandler(hub *services.EventHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket streams blacklist events to an admin console
// @Summary Blacklist event stream
// @Description Establish a WebSocket connection receiving blacklist_added and blacklist_revoked events for the caller's tenant
// @Tags websocket
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Security BearerAuth
// @Router /ws/livechat/blacklist [get]
func (h *WebSocketHandler) HandleWebSocket(ctx *gin.Context) {
	h.hub.HandleConnection(ctx, tenantOf(ctx), actorOf(ctx))
}
