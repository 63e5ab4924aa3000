package redis

import "time"

// Config is the Redis connection used for the indexing queue.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// QueueKey is the list holding queued indexing events.
	QueueKey string `env:"REDIS_QUEUE_KEY" envDefault:"searchkit:events"`
}
