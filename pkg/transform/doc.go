// Package transform converts entity field values before they are written
// to search documents.
//
// A Registry resolves transformers by the name a schema field declares:
//
//	registry := transform.NewRegistry()
//	t, err := registry.Get("Date")
//	if err != nil {
//	    return err // wraps transform.ErrUnknownTransformer
//	}
//	value, err := t.Transform(record.Values["published_at"], map[string]any{"format": time.RFC3339})
//
// Built-ins are Date, TextCast, StringCast and CollectionStringCast. Each
// transformer also reports the mapping type of its output, which takes
// precedence over the declared field kind when the mapping is built.
package transform
