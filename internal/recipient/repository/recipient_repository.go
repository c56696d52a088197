package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	recipientdomain "message-notifier/internal/recipient/domain"
)

// RecipientRepository defines read access to recipient records
type RecipientRepository interface {
	// FindByID returns the recipient, or nil when no such document exists
	FindByID(ctx context.Context, id string) (*recipientdomain.Recipient, error)
}

// firestoreRecipientRepository implements RecipientRepository on a Firestore collection
type firestoreRecipientRepository struct {
	client     *firestore.Client
	collection string
	tokenField string
}

// NewFirestoreRecipientRepository creates a repository reading recipients
// from collection, taking the push token from tokenField.
func NewFirestoreRecipientRepository(client *firestore.Client, collection, tokenField string) RecipientRepository {
	return &firestoreRecipientRepository{
		client:     client,
		collection: collection,
		tokenField: tokenField,
	}
}

func (r *firestoreRecipientRepository) FindByID(ctx context.Context, id string) (*recipientdomain.Recipient, error) {
	if id == "" {
		return nil, nil
	}

	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", r.collection, id, err)
	}
	if !snap.Exists() {
		return nil, nil
	}

	return recipientFromData(id, snap.Data(), r.tokenField), nil
}

// recipientFromData maps raw document fields to a Recipient. A token stored
// with any type other than string is treated as missing.
func recipientFromData(id string, data map[string]interface{}, tokenField string) *recipientdomain.Recipient {
	recipient := &recipientdomain.Recipient{ID: id}
	if token, ok := data[tokenField].(string); ok && token != "" {
		recipient.FCMToken = &token
	}
	return recipient
}
