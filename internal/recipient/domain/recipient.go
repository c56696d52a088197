package domain

// Recipient is a document in the students collection. Only the push token
// is read; registration flows elsewhere own the rest of the record.
type Recipient struct {
	ID       string
	FCMToken *string // nil when the document has no usable token
}

// PushToken returns the recipient's device token and whether one is set.
// A nil recipient or an empty token both report false.
func (r *Recipient) PushToken() (string, bool) {
	if r == nil || r.FCMToken == nil || *r.FCMToken == "" {
		return "", false
	}
	return *r.FCMToken, true
}
