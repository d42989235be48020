// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryFixture = `{
	"version": "1.0.0",
	"lastUpdated": "2026-08-01",
	"tasks": [
		{
			"id": "extract-knowledge",
			"displayName": "Extract Knowledge",
			"category": "knowledge",
			"taskType": "extract-knowledge",
			"errorCodes": ["EXTRACTION_FAILED"],
			"timeout": "60s",
			"retries": 1
		},
		{
			"id": "build-context",
			"displayName": "Build AI Context",
			"category": "knowledge",
			"taskType": "build-context",
			"errorCodes": ["INVALID_USER_ID", "CONTEXT_BUILD_FAILED"],
			"timeout": "30s",
			"retries": 1
		}
	]
}`

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(registryFixture), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	require.Len(t, reg.Tasks, 2)

	task, ok := reg.TaskByType("build-context")
	require.True(t, ok)
	assert.Equal(t, "Build AI Context", task.DisplayName)
	assert.Contains(t, task.ErrorCodes, "INVALID_USER_ID")

	_, ok = reg.TaskByType("unknown-task")
	assert.False(t, ok)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
