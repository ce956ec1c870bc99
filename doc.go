// Package docstore is the composition root for docstore, a small document
// store with pluggable backends.
//
// Documents are schemaless maps addressed by (collection, id). A backend only
// has to implement core.Adapter; everything above it (Collection,
// DocumentManager, Synchronizer, the typed wrapper) is backend agnostic.
//
// Bundled backends, selected by URI scheme in Open:
//
//   - a directory tree of one file per document (bare path or fs://)
//   - process memory (memory://)
//   - SQLite (sqlite://)
//   - Badger (badger://)
//   - Redis (redis://)
//   - MongoDB (mongodb://)
//
// Usage:
//
//	m, err := docstore.Open("./data", docstore.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	notes := m.Collection("notes")
//	err = notes.WriteData(ctx, "hello", docstore.Document{"title": "Hello"})
//
// Replicating one store into another:
//
//	report, err := docstore.NewSynchronizer(source, target).Synchronize(ctx, true)
package docstore
