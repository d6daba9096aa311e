// Package formstore persists form drafts between HTTP requests.
//
// A Snapshot pairs a draft identifier with the form name and its State.
// MemoryStore keeps snapshots in process with an optional TTL and cleanup
// loop; RedisStore stores them as JSON with a Redis TTL.
//
//	id := formstore.NewID()
//	_ = store.Save(ctx, formstore.Capture(id, f))
//
//	snap, err := store.Load(ctx, id)
//	if errors.Is(err, formstore.ErrNotFound) {
//		// start a new draft
//	}
//	f = def.Restore(snap.State)
package formstore
