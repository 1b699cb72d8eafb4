// Package entity defines the relational records inspected by the data-quality
// engine (users, products, orders and order line items) together with an
// immutable Snapshot that indexes them by id and by foreign key.
//
// The package performs no validation of its own. Records are accepted exactly
// as the storage layer returned them so that malformed data can later be
// reported as violations instead of being rejected on load. The only
// structural guarantee a Snapshot makes is that ids are unique inside each
// collection.
//
// # Usage
//
//	snap, err := entity.NewSnapshot(users, products, orders, items)
//	if err != nil {
//	    return err
//	}
//	for _, item := range snap.ItemsOf(orderID) {
//	    // ...
//	}
//
// All accessors return copies sorted by id, so callers may freely modify the
// returned slices without affecting the snapshot. A Snapshot is safe for
// concurrent use by multiple goroutines.
package entity
