package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Empty-content policies
const (
	EmptyContentSend = "send"
	EmptyContentSkip = "skip"
)

type Config struct {
	Port                 string
	LogLevel             string
	LogFile              string
	GoogleProjectID      string
	FirebaseCredentials  string
	MessagesCollection   string
	RecipientsCollection string
	RecipientTokenField  string
	DefaultTitle         string
	EmptyContentPolicy   string
	PubSubSubscription   string
	PubSubTopic          string
	ShutdownTimeout      time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	shutdownTimeout := 10 * time.Second
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			shutdownTimeout = parsed
		}
	}

	policy := strings.ToLower(getEnv("EMPTY_CONTENT_POLICY", EmptyContentSend))
	if policy != EmptyContentSkip {
		policy = EmptyContentSend
	}

	// Accept a full subscription resource name as well as the short one
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if parts := strings.Split(subscription, "/"); len(parts) > 1 {
		subscription = parts[len(parts)-1]
	}
	topic := os.Getenv("PUBSUB_TOPIC")
	if parts := strings.Split(topic, "/"); len(parts) > 1 {
		topic = parts[len(parts)-1]
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
		GoogleProjectID:      os.Getenv("GOOGLE_PROJECT_ID"),
		FirebaseCredentials:  os.Getenv("FIREBASE_CREDENTIALS"),
		MessagesCollection:   getEnv("MESSAGES_COLLECTION", "messages"),
		RecipientsCollection: getEnv("RECIPIENTS_COLLECTION", "students"),
		RecipientTokenField:  getEnv("RECIPIENT_TOKEN_FIELD", "fcmToken"),
		DefaultTitle:         getEnv("DEFAULT_NOTIFICATION_TITLE", "New Message"),
		EmptyContentPolicy:   policy,
		PubSubSubscription:   subscription,
		PubSubTopic:          topic,
		ShutdownTimeout:      shutdownTimeout,
	}
}

// SkipEmptyContent reports whether messages without content are dropped
// instead of sent with an empty body.
func (c *Config) SkipEmptyContent() bool {
	return c.EmptyContentPolicy == EmptyContentSkip
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
