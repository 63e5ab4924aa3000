// Package searchkit keeps domain records searchable in OpenSearch.
//
// Entities are declared in a schema file: the index and document type they
// live in and which fields are indexed, with optional value transforms and
// mapping directives. From that schema searchkit builds the index mappings,
// turns records into documents and keeps the search engine in sync with the
// primary store.
//
// Packages:
//
//   - pkg/opensearch: client configuration, index, type, document and mapping
//     models over the REST API, with an opensearch-go transport.
//   - pkg/schema: entity declarations, YAML loading and validation.
//   - pkg/transform: value transformers applied before indexing.
//   - pkg/mapping: mapping builders for the schema and the server, and the
//     drift between both.
//   - pkg/indexer: informer, object indexer, reconciliation of the search
//     engine against a record source and an asynchronous event pipeline.
//   - pkg/pg, pkg/mongo: record sources on PostgreSQL and MongoDB.
//   - pkg/redis: the Redis list queue feeding the indexing worker.
//   - pkg/config, pkg/logger, pkg/httpserver: environment and YAML
//     configuration, slog setup and probe endpoints.
//
// Basic usage:
//
//	var settings opensearch.Settings
//	if err := config.LoadYAML("searchkit.yaml", &settings); err != nil {
//		return err
//	}
//	client, err := opensearch.NewClientFactory(settings).Create("default")
//	if err != nil {
//		return err
//	}
//
//	entities, err := schema.Load("schema.yaml")
//	if err != nil {
//		return err
//	}
//	informer, err := indexer.NewInformer(entities)
//	if err != nil {
//		return err
//	}
//	oi, err := indexer.NewObjectIndexer(informer, client)
//	if err != nil {
//		return err
//	}
//
//	// call from the persistence layer
//	err = oi.OnPersisted(ctx, schema.Record{Entity: "post", ID: "42", Values: values})
//
// The searchctl command in cmd/searchctl wraps index management, mapping
// drift, status and backfill, and the queue worker.
package searchkit
