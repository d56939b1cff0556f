package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Observ  ObservabilityConfig
	Poll    PollConfig
	Chat    ChatConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicChat     string
	TopicOutbound string
	TopicOrders   string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type PollConfig struct {
	PendingInterval      time.Duration
	NotificationInterval time.Duration
	SnapshotTTL          time.Duration
}

type ChatConfig struct {
	RedirectDelay time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	backendTimeout, _ := strconv.Atoi(getEnv("BACKEND_TIMEOUT_SECONDS", "10"))
	pendingInterval, _ := strconv.Atoi(getEnv("PENDING_POLL_SECONDS", "30"))
	notifInterval, _ := strconv.Atoi(getEnv("NOTIFICATION_POLL_SECONDS", "60"))
	snapshotTTL, _ := strconv.Atoi(getEnv("SNAPSHOT_TTL_SECONDS", "30"))
	redirectDelay, _ := strconv.Atoi(getEnv("CHAT_REDIRECT_DELAY_SECONDS", "2"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
			Timeout: time.Duration(backendTimeout) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicChat:     getEnv("KAFKA_TOPIC_CHAT_EVENTS", "chat-events"),
			TopicOutbound: getEnv("KAFKA_TOPIC_CHAT_OUTBOUND", "chat-outbound"),
			TopicOrders:   getEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "storefront-gateway"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Poll: PollConfig{
			PendingInterval:      time.Duration(pendingInterval) * time.Second,
			NotificationInterval: time.Duration(notifInterval) * time.Second,
			SnapshotTTL:          time.Duration(snapshotTTL) * time.Second,
		},
		Chat: ChatConfig{
			RedirectDelay: time.Duration(redirectDelay) * time.Second,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, backend=%s", cfg.Server.Env, cfg.Server.Port, cfg.Backend.BaseURL)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
