package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Bolt implements Driver over the neo4j bolt protocol.
type Bolt struct {
	driver neo4j.DriverWithContext
	config Config
}

var _ Driver = (*Bolt)(nil)

// NewBolt creates a driver for the configured bolt endpoint.
func NewBolt(cfg Config) (*Bolt, error) {
	var auth neo4j.AuthToken
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	} else {
		auth = neo4j.NoAuth()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	return &Bolt{
		driver: driver,
		config: cfg,
	}, nil
}

// Connect creates a bolt driver with default config.
func Connect() (*Bolt, error) {
	return NewBolt(DefaultConfig())
}

// ConnectWithRetry tries to connect with exponential backoff. Only
// transient connection errors are retried; a bad URI or rejected
// credentials fail immediately.
func ConnectWithRetry(maxRetries int) (*Bolt, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		b, err := Connect()
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		pingErr := b.Ping(ctx)
		cancel()
		if pingErr == nil {
			return b, nil
		}
		b.Close()
		if !IsConnectionError(pingErr) {
			return nil, fmt.Errorf("graph database unavailable: %w", pingErr)
		}
		lastErr = pingErr
		time.Sleep(time.Duration(100<<i) * time.Millisecond)
	}
	return nil, fmt.Errorf("graph database unavailable: %w", lastErr)
}

// Execute runs a read query and returns results.
func (b *Bolt) Execute(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return b.run(ctx, neo4j.AccessModeRead, query, params)
}

// ExecuteWrite runs a write query.
func (b *Bolt) ExecuteWrite(ctx context.Context, query string, params map[string]any) error {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: b.config.Database,
	})
	defer session.Close(ctx)

	_, err := session.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("write query failed: %w", err)
	}

	return nil
}

// ExecuteWriteQuery runs a write query that returns rows.
func (b *Bolt) ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return b.run(ctx, neo4j.AccessModeWrite, query, params)
}

func (b *Bolt) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]Record, error) {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: b.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var records []Record
	for result.Next(ctx) {
		rec := result.Record()
		record := make(Record)
		for _, key := range rec.Keys {
			val, _ := rec.Get(key)
			record[key] = val
		}
		records = append(records, record)
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("result iteration failed: %w", err)
	}

	return records, nil
}

// Close releases the database driver.
func (b *Bolt) Close() error {
	return b.driver.Close(context.Background())
}

// Ping checks database connectivity.
func (b *Bolt) Ping(ctx context.Context) error {
	return b.driver.VerifyConnectivity(ctx)
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "EOF")
}
