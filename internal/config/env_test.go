package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	ResetEnv()

	os.Setenv("LAWCHAT_SERVER_URL", "http://example.test:9000")
	os.Setenv("LAWCHAT_STORE", "graph")
	os.Setenv("LAWCHAT_KNOWLEDGE_DIR", "/notes")
	os.Setenv("NEO4J_URI", "bolt://testhost:7687")
	defer func() {
		os.Unsetenv("LAWCHAT_SERVER_URL")
		os.Unsetenv("LAWCHAT_STORE")
		os.Unsetenv("LAWCHAT_KNOWLEDGE_DIR")
		os.Unsetenv("NEO4J_URI")
		ResetEnv()
	}()

	env := Env()

	assert.Equal(t, "http://example.test:9000", env.ServerURL)
	assert.Equal(t, "graph", env.StoreBackend)
	assert.Equal(t, "/notes", env.KnowledgeDir)
	assert.Equal(t, "bolt://testhost:7687", env.Neo4jURI)
}

func TestEnvDefaults(t *testing.T) {
	ResetEnv()

	os.Unsetenv("LAWCHAT_SERVER_URL")
	os.Unsetenv("LAWCHAT_ADDR")
	os.Unsetenv("LAWCHAT_STORE")
	os.Unsetenv("NEO4J_URI")
	defer ResetEnv()

	env := Env()

	assert.Equal(t, "http://127.0.0.1:8000", env.ServerURL)
	assert.Equal(t, ":8000", env.Addr)
	assert.Equal(t, "sqlite", env.StoreBackend)
	assert.Equal(t, "bolt://localhost:7687", env.Neo4jURI)
}

func TestEnvSingleton(t *testing.T) {
	ResetEnv()
	defer ResetEnv()

	env1 := Env()
	env2 := Env()

	assert.Same(t, env1, env2)
}

func TestResetEnv(t *testing.T) {
	os.Setenv("LAWCHAT_STORE", "sqlite")
	ResetEnv()
	env1 := Env()
	assert.Equal(t, "sqlite", env1.StoreBackend)

	os.Setenv("LAWCHAT_STORE", "graph")
	ResetEnv()

	env2 := Env()
	assert.Equal(t, "graph", env2.StoreBackend)

	os.Unsetenv("LAWCHAT_STORE")
	ResetEnv()
}

func TestGetEnvDefault(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback string
		want     string
	}{
		{"env set", "value", "default", "value"},
		{"env empty", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv("LAWCHAT_TEST_KEY", tt.envVal)
				defer os.Unsetenv("LAWCHAT_TEST_KEY")
			} else {
				os.Unsetenv("LAWCHAT_TEST_KEY")
			}

			assert.Equal(t, tt.want, getEnvDefault("LAWCHAT_TEST_KEY", tt.fallback))
		})
	}
}

func TestGetPaths(t *testing.T) {
	p := GetPaths()

	assert.NotEmpty(t, p.Home)
	assert.Contains(t, p.Data, ".lawchat")
	assert.Contains(t, p.Knowledge, ".lawchat")
}
