// Package probe checks that the database itself enforces declared
// constraints.
//
// A Probe performs a mutation that must be rejected (a duplicate unique key,
// a NULL in a required column, a dangling foreign key). The Prober runs each
// probe in its own transaction with all constraints made immediate, records
// whether the store rejected the mutation and always rolls the transaction
// back, so probing never leaves data behind.
//
// Outcomes:
//
//   - Enforced: the store rejected the mutation with an integrity error
//     (SQLSTATE class 23), or the probe returned *Preserved to report that
//     integrity was kept by another mechanism such as ON DELETE CASCADE.
//   - NotEnforced: the mutation succeeded. The probe fails.
//
// Anything else (failing to begin a transaction, a broken connection, a
// non-integrity server error such as a syntax error) is returned as an error
// wrapping ErrStoreUnavailable or ErrProbeBroken, never as an outcome.
package probe
