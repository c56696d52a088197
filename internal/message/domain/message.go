package domain

// ClickActionFlutter tells the Flutter client to route the tap to its
// notification handler.
const ClickActionFlutter = "FLUTTER_NOTIFICATION_CLICK"

// Message is the snapshot of a newly created document in the messages
// collection. Empty strings mean the field was absent.
type Message struct {
	StudentID string `json:"studentId"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
}

// MessageCreatedEvent is one delivery of a message creation by the platform.
// The same creation may be delivered more than once.
type MessageCreatedEvent struct {
	EventID   string  `json:"event_id"`
	MessageID string  `json:"message_id"`
	Message   Message `json:"message"`
}
