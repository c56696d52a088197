package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"message-notifier/internal/message/dto"
	"message-notifier/internal/notification"
	"message-notifier/pkg/logging"
	"message-notifier/pkg/metrics"
)

const maxEventBody = 1 << 20

// MessageCreated handles one pushed message-created event. It always
// answers 200 so that the platform neither retries nor reports a failure
// back to the writer of the message.
func (h *Handler) MessageCreated(c *gin.Context) {
	eventID := c.GetHeader("ce-id")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody))
	if err != nil {
		h.rejectEvent(c, eventID, err)
		return
	}

	evt, envelopeID, err := dto.DecodeBody(body, h.config.MessagesCollection)
	if eventID == "" {
		eventID = envelopeID
	}
	if err != nil {
		h.rejectEvent(c, eventID, err)
		return
	}
	if eventID == "" {
		eventID = uuid.New().String()
	}
	evt.EventID = eventID

	res := h.eventHandler.Handle(c.Request.Context(), evt)
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "outcome": res.Outcome})
}

func (h *Handler) rejectEvent(c *gin.Context, eventID string, err error) {
	if eventID == "" {
		eventID = uuid.New().String()
	}

	log := logging.Component("http")
	log.Warn().Err(err).Str("event_id", eventID).Msg("dropping undecodable message event")
	metrics.IncOutcome(string(notification.OutcomeSkippedInvalidEvent))

	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "outcome": notification.OutcomeSkippedInvalidEvent})
}
