// Package cmd implements the command-line interface of dDoc.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the GraphQL API server
//   - doc: Reads and writes documents of the selected store directly (get, set, hello)
//   - query: Queries a running server for the hello message
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ddoc -help for a list of all commands.
package cmd
