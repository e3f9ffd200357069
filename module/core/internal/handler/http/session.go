package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/service"
)

type sessionStore interface {
	Get(id domain.DeviceID) (domain.Session, bool)
	SetDescription(id domain.DeviceID, description string) error
}

type sessionResponse struct {
	DeviceID        string `json:"device_id"`
	CustomerKey     string `json:"customer_key"`
	StartTime       int64  `json:"start_time"`
	WorkDescription string `json:"work_description"`
}

type descriptionRequest struct {
	Description *string `json:"description"`
}

type SessionHandler struct {
	store sessionStore
}

func NewSessionHandler(store sessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Register(r *gin.RouterGroup) {
	r.GET("/devices/:device_id/session", h.GetSession)
	r.PUT("/devices/:device_id/session/description", h.SetDescription)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	deviceID := domain.DeviceID(c.Param("device_id"))

	sess, ok := h.store.Get(deviceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		DeviceID:        string(deviceID),
		CustomerKey:     string(sess.CustomerKey),
		StartTime:       sess.StartTime.UnixMilli(),
		WorkDescription: sess.WorkDescription,
	})
}

func (h *SessionHandler) SetDescription(c *gin.Context) {
	deviceID := domain.DeviceID(c.Param("device_id"))

	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}

	if err := h.store.SetDescription(deviceID, *req.Description); err != nil {
		if errors.Is(err, service.ErrNoSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}

	c.Status(http.StatusNoContent)
}
