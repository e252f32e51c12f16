// Package handler implements the read-only HTTP API over the parsed
// netplan configuration.
//
// # Endpoints
//
//	GET /api/interfaces               every interface, or ?name=a&name=b
//	GET /api/interfaces/{name}        one interface record
//	GET /api/interfaces/{name}/related  the relationship closure of name
//	GET /api/interfaces/{name}/physical the physical devices behind name
//	GET /api/relations                every link and member reference
//	GET /api/export                   a query result in any output format
//	GET /healthz                      liveness and interface count
//	GET /events                       reload notifications (see package hub)
//
// Every request reads the NetPlan current at that moment, so a reload
// in the background never mixes two configurations in one response.
//
// # Response Format
//
// Success responses return JSON. Error responses return JSON with an
// {error, details} structure: not_found maps to 404, invalid to 400 and
// everything else to 500.
package handler
