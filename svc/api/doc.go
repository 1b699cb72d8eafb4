// Package api exposes validation runs, the rule catalog and constraint probes
// over HTTP.
//
// Routes:
//
//	GET  /health/live     liveness
//	GET  /health/ready    readiness (named dependency checks)
//	GET  /metrics         Prometheus exposition
//	GET  /v1/rules        rule catalog
//	GET  /v1/rules/{id}   single rule
//	POST /v1/runs         load a snapshot, run rules (?rules=a,b), deliver the report
//	POST /v1/probes       run the constraint-enforcement probes
//
// JSON responses share one envelope: {"code", "message", "data", "meta", "error"}.
// POST /v1/runs also renders yaml or text reports with ?format=.
package api
