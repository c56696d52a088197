package fcm

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"

	"message-notifier/pkg/logging"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient wraps an already initialized messaging client
func NewClient(messagingClient *messaging.Client) *Client {
	return &Client{
		messagingClient: messagingClient,
	}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title    string
	Body     string
	ImageURL string            // Optional notification image
	Data     map[string]string // Custom data payload
	// ClickAction is copied into data.click_action and the Android
	// notification so the client app knows which UI action to run
	ClickAction string
}

// SendToDevice sends a push notification to a specific device token and
// returns the FCM message ID.
func (c *Client) SendToDevice(ctx context.Context, token string, notification NotificationData) (string, error) {
	log := logging.Component("fcm")

	response, err := c.messagingClient.Send(ctx, buildMessage(token, notification))
	if err != nil {
		return "", fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Debug().Str("message_id", response).Msg("message sent")
	return response, nil
}

// IsTokenRejected reports whether err means the token itself is unusable
// (unregistered app instance or malformed token), as opposed to a
// transient service failure. The SDK predicates only match the SDK's own
// error type, so the wrap chain is walked.
func IsTokenRejected(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if messaging.IsUnregistered(e) || errorutils.IsInvalidArgument(e) {
			return true
		}
	}
	return false
}

func buildMessage(token string, notification NotificationData) *messaging.Message {
	data := make(map[string]string, len(notification.Data)+1)
	for k, v := range notification.Data {
		data[k] = v
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
	}

	if notification.ClickAction != "" {
		data["click_action"] = notification.ClickAction
		message.Android = &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ClickAction: notification.ClickAction,
			},
		}
	}
	if len(data) > 0 {
		message.Data = data
	}

	return message
}
