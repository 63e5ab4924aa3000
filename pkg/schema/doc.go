// Package schema declares which domain entities are indexed and how.
//
// An Entity names its index, its document type and its fields. Each Field
// has a Kind, and optionally a Transform applied to values before indexing
// and a MappingDirective overlaying engine mapping parameters:
//
//	entities:
//	  - name: post
//	    index: blog
//	    type: post
//	    fields:
//	      - name: title
//	        kind: string
//	        indexed: true
//	        mapping:
//	          analyzer: english
//	          fields:
//	            - index_name: raw
//	              type: keyword
//	      - name: published_at
//	        kind: datetime
//	        indexed: true
//	        transform: { type: Date, options: { format: "2006-01-02" } }
//
// Load reads such a file and validates it. Record carries one persisted
// entity instance through the indexer.
package schema
