package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	messagedomain "message-notifier/internal/message/domain"
	recipientrepo "message-notifier/internal/recipient/repository"
	"message-notifier/pkg/fcm"
	"message-notifier/pkg/logging"
	"message-notifier/pkg/metrics"
)

// Outcome is how a single message-created event was resolved
type Outcome string

const (
	OutcomeSent                Outcome = "sent"
	OutcomeSkippedInvalidEvent Outcome = "skipped_invalid_event"
	OutcomeSkippedNoRecipient  Outcome = "skipped_no_recipient"
	OutcomeSkippedNoToken      Outcome = "skipped_no_token"
	OutcomeSkippedEmptyContent Outcome = "skipped_empty_content"
	OutcomeLookupFailed        Outcome = "lookup_failed"
	OutcomeSendFailed          Outcome = "send_failed"
)

// Sender delivers one notification to one device token
type Sender interface {
	SendToDevice(ctx context.Context, token string, notification fcm.NotificationData) (string, error)
}

// Result describes what Handle did. Err carries the swallowed failure for
// the lookup_failed and send_failed outcomes.
type Result struct {
	Outcome   Outcome
	Token     string
	MessageID string
	Err       error
}

// Options tunes payload construction
type Options struct {
	DefaultTitle     string
	SkipEmptyContent bool
}

// Notifier relays newly created messages to the recipient's device
type Notifier struct {
	recipients recipientrepo.RecipientRepository
	sender     Sender
	opts       Options
}

// NewNotifier creates a Notifier. An empty DefaultTitle becomes "New Message".
func NewNotifier(recipients recipientrepo.RecipientRepository, sender Sender, opts Options) *Notifier {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "New Message"
	}
	return &Notifier{
		recipients: recipients,
		sender:     sender,
		opts:       opts,
	}
}

// Handle resolves the recipient token for evt and sends at most one push
// notification. Failures are logged and reported in the Result; Handle
// never returns an error to the event source.
func (n *Notifier) Handle(ctx context.Context, evt messagedomain.MessageCreatedEvent) Result {
	start := time.Now()
	log := logging.Component("notifier").With().
		Str("event_id", evt.EventID).
		Str("message_id", evt.MessageID).
		Str("student_id", evt.Message.StudentID).
		Logger()

	res := n.handle(ctx, evt, log)

	metrics.IncOutcome(string(res.Outcome))
	metrics.ObserveHandleDuration(time.Since(start).Seconds())

	var entry *zerolog.Event
	if res.Err != nil {
		entry = log.Error().Err(res.Err)
	} else {
		entry = log.Info()
	}
	entry.Str("outcome", string(res.Outcome)).Dur("took", time.Since(start)).Msg("message event handled")

	return res
}

func (n *Notifier) handle(ctx context.Context, evt messagedomain.MessageCreatedEvent, log zerolog.Logger) Result {
	msg := evt.Message
	if msg.StudentID == "" {
		return Result{Outcome: OutcomeSkippedInvalidEvent}
	}

	recipient, err := n.recipients.FindByID(ctx, msg.StudentID)
	if err != nil {
		return Result{Outcome: OutcomeLookupFailed, Err: err}
	}
	if recipient == nil {
		log.Debug().Msg("recipient not found, skipping push notification")
		return Result{Outcome: OutcomeSkippedNoRecipient}
	}

	token, ok := recipient.PushToken()
	if !ok {
		log.Debug().Msg("recipient has no push token, skipping push notification")
		return Result{Outcome: OutcomeSkippedNoToken}
	}

	if msg.Content == "" && n.opts.SkipEmptyContent {
		return Result{Outcome: OutcomeSkippedEmptyContent, Token: token}
	}

	messageID, err := n.sender.SendToDevice(ctx, token, n.buildNotification(msg))
	if err != nil {
		if fcm.IsTokenRejected(err) {
			log.Warn().Msg("push token rejected by FCM")
		}
		return Result{Outcome: OutcomeSendFailed, Token: token, Err: err}
	}

	return Result{Outcome: OutcomeSent, Token: token, MessageID: messageID}
}

func (n *Notifier) buildNotification(msg messagedomain.Message) fcm.NotificationData {
	title := msg.Title
	if title == "" {
		title = n.opts.DefaultTitle
	}

	return fcm.NotificationData{
		Title: title,
		Body:  msg.Content,
		Data: map[string]string{
			"click_action": messagedomain.ClickActionFlutter,
		},
		ClickAction: messagedomain.ClickActionFlutter,
	}
}
