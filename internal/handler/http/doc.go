// Package http implements the REST transport of the tours API.
//
// It wires the chi router, the middleware chain (trace ids, access logs,
// metrics, rate limiting, compression) and the handlers of every resource.
// All handlers answer with the [models.Envelope] JSON shape and report
// failures through one error boundary, writeError, which maps service and
// store errors to HTTP statuses.
package http
