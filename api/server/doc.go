// Package server exposes the hello message over HTTP.
//
// Routes:
//
//   - GET|POST /graphql: GraphQL endpoint (query { hello { text created_at } }).
//     CORS is applied for the configured origins, with credentials, the methods
//     GET, POST and OPTIONS and the headers Content-Type and Authorization.
//   - GET /healthz: liveness probe, always {"status":"ok"}.
//   - GET /metrics: Prometheus metrics (VictoriaMetrics exposition format).
//   - GET /: welcome message.
//
// Every request gets an X-Request-ID (the one sent by the client or a new UUID).
// Request counts and durations are recorded per route.
//
// The GraphQL resolver never fails (see hello.Resolver.FetchHello), so store
// errors surface as a well formed response with the fixed error text.
package server
