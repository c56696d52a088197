package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	messagedomain "message-notifier/internal/message/domain"
)

var (
	// ErrMalformedEvent is returned when the payload is not a document event
	ErrMalformedEvent = errors.New("malformed document event")
	// ErrNotCreate is returned for update and delete events
	ErrNotCreate = errors.New("document event is not a creation")
	// ErrOutsideCollection is returned when the document is not a direct child of the messages collection
	ErrOutsideCollection = errors.New("document is outside the messages collection")
)

// DocumentEvent is the JSON form of a Firestore document write event
type DocumentEvent struct {
	OldValue Document `json:"oldValue"`
	Value    Document `json:"value"`
}

// Document is a Firestore document in REST representation
type Document struct {
	Name       string           `json:"name"`
	Fields     map[string]Value `json:"fields"`
	CreateTime string           `json:"createTime,omitempty"`
	UpdateTime string           `json:"updateTime,omitempty"`
}

// Value is a typed Firestore field value. Only the scalar kinds the
// notifier reads are mapped; all others decode as absent.
type Value struct {
	StringValue  *string         `json:"stringValue,omitempty"`
	IntegerValue json.RawMessage `json:"integerValue,omitempty"`
}

// AsString returns the field as a string and whether it had a usable value.
// Integers are rendered in decimal; Firestore encodes them as JSON strings
// but plain numbers are accepted too.
func (v Value) AsString() (string, bool) {
	if v.StringValue != nil {
		return *v.StringValue, true
	}
	if len(v.IntegerValue) > 0 {
		s := strings.Trim(string(v.IntegerValue), `"`)
		if s != "" && s != "null" {
			return s, true
		}
	}
	return "", false
}

// PushEnvelope is the body Pub/Sub push subscriptions POST to an endpoint
type PushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodeDocumentEvent parses a document-event payload and converts it into a
// MessageCreatedEvent. EventID is left empty for the caller to fill in.
func DecodeDocumentEvent(data []byte, collection string) (messagedomain.MessageCreatedEvent, error) {
	var evt DocumentEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return messagedomain.MessageCreatedEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return evt.ToDomain(collection)
}

// DecodeBody accepts either a raw document event or a Pub/Sub push envelope
// wrapping one. The second return value is the envelope's message ID, if any.
func DecodeBody(body []byte, collection string) (messagedomain.MessageCreatedEvent, string, error) {
	var envelope PushEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Message.Data) > 0 {
		evt, err := DecodeDocumentEvent(envelope.Message.Data, collection)
		return evt, envelope.Message.MessageID, err
	}

	evt, err := DecodeDocumentEvent(body, collection)
	return evt, "", err
}

// ToDomain validates the event as a creation under collection and extracts
// the message fields.
func (e DocumentEvent) ToDomain(collection string) (messagedomain.MessageCreatedEvent, error) {
	if e.Value.Name == "" {
		return messagedomain.MessageCreatedEvent{}, ErrNotCreate
	}
	if e.OldValue.Name != "" || len(e.OldValue.Fields) > 0 {
		return messagedomain.MessageCreatedEvent{}, ErrNotCreate
	}

	messageID, ok := documentID(e.Value.Name, collection)
	if !ok {
		return messagedomain.MessageCreatedEvent{}, fmt.Errorf("%w: %s", ErrOutsideCollection, e.Value.Name)
	}

	return messagedomain.MessageCreatedEvent{
		MessageID: messageID,
		Message: messagedomain.Message{
			StudentID: e.Value.field("studentId"),
			Title:     e.Value.field("title"),
			Content:   e.Value.field("content"),
		},
	}, nil
}

func (d Document) field(name string) string {
	v, ok := d.Fields[name]
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// documentID matches "<collection>/{id}" against the document resource
// name, with or without the "projects/.../documents/" prefix.
func documentID(name, collection string) (string, bool) {
	rel := name
	if i := strings.Index(name, "/documents/"); i >= 0 {
		rel = name[i+len("/documents/"):]
	}

	segments := strings.Split(rel, "/")
	if len(segments) != 2 || segments[0] != collection || segments[1] == "" {
		return "", false
	}
	return segments[1], true
}
