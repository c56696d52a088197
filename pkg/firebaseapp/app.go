// Package firebaseapp builds the process-wide Firebase handles once at
// startup so they can be injected into the components that need them.
package firebaseapp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Handles groups the clients derived from a single Firebase app.
type Handles struct {
	App       *firebase.App
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// New initializes the Firebase app and its Firestore and Messaging clients.
// An empty credentialsFile falls back to application default credentials;
// an empty projectID lets the SDK infer it from the credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Handles, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, ClientOptions(credentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	mc, err := app.Messaging(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &Handles{App: app, Firestore: fs, Messaging: mc}, nil
}

// Close releases the Firestore connection.
func (h *Handles) Close() error {
	if h == nil || h.Firestore == nil {
		return nil
	}
	return h.Firestore.Close()
}

// ClientOptions returns the Google API options for the given credentials file.
func ClientOptions(credentialsFile string) []option.ClientOption {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return opts
}
