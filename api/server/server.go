package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ValentinKolb/dDoc/api/schema"
	"github.com/ValentinKolb/dDoc/lib/common"
	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/VictoriaMetrics/metrics"
	"github.com/graphql-go/graphql"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/rs/cors"
)

var Logger = logger.GetLogger("api")

// maxRequestBytes limits the size of GraphQL request bodies
const maxRequestBytes = 1 << 20

// NewServer creates the API server.
// The resolver is the only connection to the document store.
//
// Usage:
//
//	s, err := server.NewServer(config, hello.NewResolver(handle.Store))
//	if err != nil {
//		return err
//	}
//	return s.Serve(ctx)
func NewServer(config common.ServerConfig, resolver *hello.Resolver) (*Server, error) {
	gqlSchema, err := schema.New(resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	s := &Server{
		config: config,
		schema: gqlSchema,
	}
	s.handler = s.routes()
	return s, nil
}

// Server serves the GraphQL API plus health and metrics endpoints.
type Server struct {
	config  common.ServerConfig
	schema  graphql.Schema
	handler http.Handler
}

// Handler returns the root http.Handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured endpoint until ctx is cancelled, then shuts
// the server down gracefully (bounded by the configured timeout).
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Endpoint(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		Logger.Infof("server ready at http://%s/graphql", s.config.Endpoint())
		errC <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	Logger.Infof("shutting down server")
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Routes
// --------------------------------------------------------------------------

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", instrument("root", http.HandlerFunc(s.handleRoot)))
	mux.Handle("GET /healthz", instrument("healthz", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", http.HandlerFunc(s.handleMetrics))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})
	mux.Handle("/graphql", instrument("graphql", c.Handler(http.HandlerFunc(s.handleGraphQL))))

	return requestID(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the API. Visit /graphql for the GraphQL playground.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}

// --------------------------------------------------------------------------
// GraphQL
// --------------------------------------------------------------------------

// graphqlRequest is the body of a GraphQL request (POST) or its query parameters (GET)
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				writeGraphQLError(w, http.StatusBadRequest, "variables are not valid JSON")
				return
			}
		}
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
		defer body.Close()
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeGraphQLError(w, http.StatusBadRequest, "request body is not valid JSON")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeGraphQLError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		writeGraphQLError(w, http.StatusBadRequest, "must provide query string")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		Logger.Debugf("graphql request returned errors: %v", result.Errors)
	}
	writeJSON(w, http.StatusOK, result)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Errorf("failed to write response: %v", err)
	}
}

func writeGraphQLError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]string{{"message": msg}},
	})
}
