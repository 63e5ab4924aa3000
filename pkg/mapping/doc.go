// Package mapping builds field mappings from the entity schema, reads the
// mappings stored on the server and computes the difference between both.
//
//	entities, err := mapping.NewEntityBuilder(informer, nil).Build()
//	backend, err := mapping.NewBackendBuilder(client, informer).Build(ctx)
//	drift := entities.DiffAgainst(backend)
//	drift.SetClient(client)
//	err = drift.Apply(ctx)
//
// Field types are inferred in this order: the target type of a declared
// transform, string as text, scalar kinds as themselves, datetime as date.
// Any other kind fails with ErrUnsupportedType. A mapping directive then
// overlays its parameters, and its multi-fields inherit the field type
// unless they set one.
package mapping
