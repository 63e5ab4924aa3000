// Package indexer keeps search documents in sync with entity records.
//
// An Informer answers which entities are indexable, in which index and type
// their documents live and which fields are written. The ObjectIndexer is an
// Observer of persistence notifications: persisted and updated records are
// stored under their id, removed records are deleted. Each notification
// causes exactly one write.
//
//	informer, err := indexer.NewInformer(entities)
//	oi, err := indexer.NewObjectIndexer(informer, client, indexer.WithLogger(log))
//	err = oi.OnPersisted(ctx, schema.Record{Entity: "post", ID: "42", Values: values})
//
// Notifications can also be deferred: a QueueObserver pushes events to a
// Queue and a Worker feeds them to the ObjectIndexer. MemoryQueue serves a
// single process; pkg/redis provides a shared one.
//
// A Reconciler compares a Source with the engine, reporting per entity the
// counts on both sides and the ids needing create or update, plus documents
// without a record. It can backfill the create and update sets.
package indexer
