// Package service exposes the netplan queries to the CLI and the HTTP API.
//
// # Queries
//
// NetPlan wraps one immutable registry and its resolver and answers the
// three supported queries: the interfaces themselves (show), their full
// relationship closure (related) and the physical devices within that
// closure (physical). With strict checking, asking for an interface that
// no document declares is a not_found error.
//
// # Reloading
//
// Parser reads the documents and builds a NetPlan. Reloader keeps the
// current NetPlan for long-running callers (watch mode, the HTTP server),
// swapping it wholesale after every successful parse and publishing the
// outcome on an EventBus. A failed reload keeps the previous NetPlan.
package service
