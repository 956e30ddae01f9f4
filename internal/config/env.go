// Package config provides centralized configuration management.
// Keeps os.Getenv calls out of the rest of the codebase.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// LawchatEnv holds all lawchat environment variables.
type LawchatEnv struct {
	// ServerURL is the conversation store base URL (LAWCHAT_SERVER_URL)
	ServerURL string

	// Addr is the backend listen address (LAWCHAT_ADDR)
	Addr string

	// StoreBackend selects the server storage backend, "sqlite" or
	// "graph" (LAWCHAT_STORE)
	StoreBackend string

	// KnowledgeDir is the family-law notes directory the answerer
	// searches (LAWCHAT_KNOWLEDGE_DIR)
	KnowledgeDir string

	// Provider selects the LLM provider by id (LAWCHAT_PROVIDER)
	Provider string

	// Model is the default LLM model for the answerer (DEFAULT_MODEL)
	Model string

	// OpenAIKey is the OpenAI-compatible API key (OPENAI_API_KEY)
	OpenAIKey string

	// OpenAIBaseURL overrides the OpenAI API base URL (OPENAI_BASE_URL)
	OpenAIBaseURL string

	// Neo4jURI is the graph database URI (NEO4J_URI)
	Neo4jURI string

	// Neo4jUser is the graph database user (NEO4J_USER)
	Neo4jUser string

	// Neo4jPassword is the graph database password (NEO4J_PASSWORD)
	Neo4jPassword string
}

var (
	env     *LawchatEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *LawchatEnv {
	envOnce.Do(func() {
		env = &LawchatEnv{
			ServerURL:     getEnvDefault("LAWCHAT_SERVER_URL", "http://127.0.0.1:8000"),
			Addr:          getEnvDefault("LAWCHAT_ADDR", ":8000"),
			StoreBackend:  getEnvDefault("LAWCHAT_STORE", "sqlite"),
			KnowledgeDir:  os.Getenv("LAWCHAT_KNOWLEDGE_DIR"),
			Provider:      getEnvDefault("LAWCHAT_PROVIDER", "openai"),
			Model:         getEnvDefault("DEFAULT_MODEL", "gpt-4o-mini"),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			Neo4jURI:      getEnvDefault("NEO4J_URI", "bolt://localhost:7687"),
			Neo4jUser:     os.Getenv("NEO4J_USER"),
			Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Paths holds standard lawchat directory paths.
type Paths struct {
	// Home is the lawchat home directory (~/.lawchat)
	Home string

	// Data is the data directory (~/.lawchat/data)
	Data string

	// Knowledge is the default knowledge directory (~/.lawchat/knowledge)
	Knowledge string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		lawchatHome := filepath.Join(home, ".lawchat")

		paths = &Paths{
			Home:      lawchatHome,
			Data:      filepath.Join(lawchatHome, "data"),
			Knowledge: filepath.Join(lawchatHome, "knowledge"),
		}
	})
	return paths
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
