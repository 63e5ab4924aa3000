// Package redis connects to Redis with go-redis/v9 and provides the shared
// queue of asynchronous indexing events.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	queue := redis.NewQueue(client, redis.WithQueueKey(cfg.QueueKey))
//
//	// producer side
//	observer := indexer.NewQueueObserver(queue)
//
//	// worker side
//	worker, err := indexer.NewWorker(queue, objectIndexer)
//
// Queue satisfies indexer.Queue. Healthcheck wraps a PING for health
// endpoints.
package redis
