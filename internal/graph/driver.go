// Package graph provides the database abstraction for the graph
// storage backend. Consumers depend on the Driver interface, not on
// a concrete database.
package graph

import (
	"context"
	"os"
)

// Record represents a single result row from a query.
type Record map[string]any

// GraphReader provides read-only graph database operations.
type GraphReader interface {
	// Execute runs a Cypher query and returns results.
	Execute(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// GraphWriter provides write graph database operations.
type GraphWriter interface {
	// ExecuteWrite runs a write query (CREATE, MERGE, SET, DELETE).
	ExecuteWrite(ctx context.Context, query string, params map[string]any) error

	// ExecuteWriteQuery runs a write query that returns rows, such as
	// an id allocation. It always takes the write path.
	ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// Driver defines the full interface for graph database operations.
// Any bolt-speaking graph DB (Neo4j, Memgraph) satisfies it.
type Driver interface {
	GraphReader
	GraphWriter

	// Close releases database resources.
	Close() error

	// Ping checks if the database is reachable.
	Ping(ctx context.Context) error
}

// Config holds database connection configuration.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// DefaultConfig returns configuration from environment variables.
func DefaultConfig() Config {
	return Config{
		URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Username: getEnv("NEO4J_USER", ""),
		Password: getEnv("NEO4J_PASSWORD", ""),
		Database: getEnv("NEO4J_DATABASE", "neo4j"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := lookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// lookupEnv is a variable for testing injection.
var lookupEnv = os.LookupEnv

// SetEnvLookup replaces the environment lookup, for tests.
func SetEnvLookup(fn func(string) (string, bool)) {
	lookupEnv = fn
}
