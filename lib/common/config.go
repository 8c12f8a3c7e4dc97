package common

import (
	"fmt"
	"net"
	"strings"

	"github.com/ValentinKolb/dDoc/lib/store/fstore"
)

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the API server.
type ServerConfig struct {
	// HTTP api settings
	Host           string
	Port           int
	AllowedOrigins []string

	// Firestore settings, the remote store is used if all credentials are present
	Credentials fstore.Credentials

	// SeedFile is an optional YAML dataset for the in-memory store
	SeedFile string

	// TimeoutSecond bounds background seeding and graceful shutdown
	TimeoutSecond int64

	// Logging configuration
	LogLevel string
}

// Endpoint returns the address the server listens on.
func (c *ServerConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orNone := func(value string) string {
		if value == "" {
			return "<none>"
		}
		return value
	}

	// API settings
	addSection("API Server")
	addField("Endpoint", c.Endpoint())
	addField("Allowed Origins", orNone(strings.Join(c.AllowedOrigins, ", ")))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Store
	addSection("Store")
	if c.Credentials.Complete() {
		addField("Backend", "firestore")
		addField("Project ID", c.Credentials.ProjectID)
		addField("Client Email", c.Credentials.ClientEmail)
		addField("Private Key", "<redacted>")
	} else {
		addField("Backend", "memory")
		addField("Seed File", orNone(c.SeedFile))
	}

	return sb.String()
}
