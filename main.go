package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"
	"golang.org/x/sync/errgroup"

	api "message-notifier/cmd/api"
	"message-notifier/internal/notification"
	recipientRepo "message-notifier/internal/recipient/repository"
	"message-notifier/pkg/config"
	"message-notifier/pkg/fcm"
	"message-notifier/pkg/firebaseapp"
	"message-notifier/pkg/logging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	cleanup, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		logging.Get().Fatal().Err(err).Msg("failed to initialize logging")
	}

	if err := run(cfg); err != nil {
		logging.Get().Error().Err(err).Msg("notifier stopped")
		cleanup()
		os.Exit(1)
	}
	logging.Get().Info().Msg("notifier stopped")
	cleanup()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Firebase handles are built once and shared by every invocation
	handles, err := firebaseapp.New(ctx, cfg.GoogleProjectID, cfg.FirebaseCredentials)
	if err != nil {
		return err
	}
	defer handles.Close()

	recipients := recipientRepo.NewFirestoreRecipientRepository(handles.Firestore, cfg.RecipientsCollection, cfg.RecipientTokenField)
	notifier := notification.NewNotifier(recipients, fcm.NewClient(handles.Messaging), notification.Options{
		DefaultTitle:     cfg.DefaultTitle,
		SkipEmptyContent: cfg.SkipEmptyContent(),
	})

	sub, closeSub, err := newSubscriber(ctx, cfg, notifier)
	if err != nil {
		return err
	}
	defer closeSub()

	return serve(ctx, api.NewHandler(notifier, cfg), ":"+cfg.Port, sub)
}

// runner is a blocking event source stopped by cancelling its context
type runner interface {
	Start(ctx context.Context) error
}

// newSubscriber builds the optional pull subscriber. It returns a nil runner
// when no subscription is configured. Nothing is started here, so a client
// error leaves no goroutine behind.
func newSubscriber(ctx context.Context, cfg *config.Config, handler notification.EventHandler) (runner, func(), error) {
	if cfg.PubSubSubscription == "" {
		logging.Get().Info().Msg("PUBSUB_SUBSCRIPTION not configured, pull subscription disabled")
		return nil, func() {}, nil
	}

	projectID := cfg.GoogleProjectID
	if projectID == "" {
		projectID = pubsub.DetectProjectID
	}
	client, err := pubsub.NewClient(ctx, projectID, firebaseapp.ClientOptions(cfg.FirebaseCredentials)...)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	sub := notification.NewSubscriber(client, handler, cfg.MessagesCollection, cfg.PubSubTopic, cfg.PubSubSubscription)
	return sub, func() { _ = client.Close() }, nil
}

// serve runs the HTTP server and the optional subscriber until ctx is
// cancelled or either fails; a failure in one stops the other.
func serve(ctx context.Context, h *api.Handler, addr string, sub runner) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.Start(gctx, addr)
	})
	if sub != nil {
		g.Go(func() error {
			return sub.Start(gctx)
		})
	}

	return g.Wait()
}
