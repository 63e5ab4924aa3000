// Package opensearch maps a small object model onto the OpenSearch REST API:
// clients grouped in named bundles, indexes, document types, documents and
// field mappings.
//
// Every operation is a single synchronous HTTP round trip. Nothing is retried;
// failures propagate to the caller immediately.
//
// The package has a handful of public touch points:
//
//   - Settings / ClientFactory – declarative configuration (client bundles,
//     per-index configuration, transfer options) and the factory creating a
//     Client for a bundle.
//
//   - Client / Index / Type – address a bundle, an index (with optional name
//     prefix) and a document type. Requests are composed by prefixing paths.
//
//   - Document / DocumentFactory – store, load and reconstitute documents.
//
//   - Mapping – field mappings, dynamic templates and raw overrides that can
//     be put to the server.
//
//   - NewTransport / Healthcheck – the opensearch-go transport and a probe
//     function for readiness endpoints.
//
// # Usage
//
//	factory := opensearch.NewClientFactory(settings)
//	client, err := factory.Create("default")
//	if err != nil {
//	    // errors.Is(err, opensearch.ErrMissingClientBundle)
//	}
//
//	index, _ := client.FindIndex("twitter")
//	tweets := index.FindType("tweet")
//
//	doc := opensearch.NewDocument(tweets, map[string]any{"message": "hello"})
//	if err := doc.Store(ctx); err != nil {
//	    // ...
//	}
//
//	found, err := tweets.FindDocumentByID(ctx, doc.ID())
//
// # Error Handling
//
// Configuration problems (invalid index name, missing bundle, index without
// client, unknown client setting) can be detected with IsConfigurationError.
// Failed HTTP exchanges wrap ErrTransport. Structured error payloads of the
// engine are returned as *APIError. A document whose index, type or id
// disagree with the expected ones yields a *DocumentMismatchError listing every
// disagreement.
package opensearch
