// Package reporting delivers finished validation reports to external systems.
//
// Every destination implements Sink. Fanout delivers one report to all
// registered sinks concurrently and joins their errors, so one unavailable
// backend never hides the others. Available sinks:
//
//   - PGSink persists runs, rule results and violations in Postgres.
//   - RedisSink caches the latest verdict per rule and publishes a run summary.
//   - S3Sink archives the full report as JSON.
//   - OpenSearchSink indexes one document per violation.
//   - MongoSink stores the report as a document.
//   - Notifier emails a summary when a run fails.
//
// Each sink talks to its backend through a narrow interface, so tests use
// fakes and production code passes the real client.
package reporting
