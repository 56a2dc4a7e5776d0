package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordedSession = `[
  {"action":"click","fingerprint":{"url":"https://shop.example/home"},
   "elementContext":{"tag":"BUTTON","text":"Submit","attributes":{}}},
  {"action":"input","value":"hello","fingerprint":{"url":"https://shop.example/search"},
   "elementContext":{"tag":"INPUT","attributes":{"name":"q"}}}
]`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeSession(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSession(t, dir, recordedSession)
	output := filepath.Join(dir, "out.py")

	stdout, err := execute(t, "generate", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated test script:")
	assert.Contains(t, stdout, "(2 events, 3 blocks, 1 navigations)")

	script, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(script), `driver.get("https://shop.example/home")`)
	assert.Contains(t, string(script), `EC.url_contains("search")`)
	assert.Contains(t, string(script), `send_keys("hello")`)
}

func TestRootCommandDefaultsToGenerate(t *testing.T) {
	dir := t.TempDir()
	input := writeSession(t, dir, `[]`)
	output := filepath.Join(dir, "empty.py")

	_, err := execute(t, input, "--output", output, "--start-url", "https://start.example")
	require.NoError(t, err)

	script, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(script), `driver.get("https://start.example")`)
}

func TestGenerateFailuresWriteNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "never.py")

	_, err := execute(t, "generate", filepath.Join(dir, "missing.json"), "-o", output)
	assert.ErrorContains(t, err, "not found")

	malformed := writeSession(t, dir, `{"action":"click"}`)
	_, err = execute(t, "generate", malformed, "-o", output)
	assert.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateWithPolicyFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSession(t, dir, `[{"action":"click","elementContext":{"tag":"DIV","attributes":{"id":"order-123456789"}}}]`)
	policy := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte("dynamic_id_length: 20\n"), 0o644))
	output := filepath.Join(dir, "out.py")

	_, err := execute(t, "generate", input, "-o", output, "--policy", policy)
	require.NoError(t, err)

	script, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(script), `(By.ID, "order-123456789")`)
}

func TestRecordRequiresURL(t *testing.T) {
	_, err := execute(t, "record")
	assert.Error(t, err)
}
