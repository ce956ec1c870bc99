package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), stdin, args...)
}

func runContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestDocumentCommands(t *testing.T) {
	store := filepath.Join(t.TempDir(), "store")

	out, err := run(t, "", "--store", store, "write", "notes", "hello", `{"title":"Hello"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Document 'hello' written to 'notes'.")

	_, err = run(t, `{"title":"From stdin"}`, "--store", store, "write", "notes", "piped")
	require.NoError(t, err)

	out, err = run(t, "", "--store", store, "read", "notes", "hello")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Hello", doc["title"])

	out, err = run(t, "", "--store", store, "list")
	require.NoError(t, err)
	assert.Equal(t, "notes\n", out)

	out, err = run(t, "", "--store", store, "list", "notes")
	require.NoError(t, err)
	assert.Equal(t, "hello\npiped\n", out)

	out, err = run(t, "", "--store", store, "list", "notes", "--json")
	require.NoError(t, err)
	var records map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Equal(t, "From stdin", records["piped"]["title"])

	_, err = run(t, "", "--store", store, "delete", "notes", "hello")
	require.NoError(t, err)

	_, err = run(t, "", "--store", store, "read", "notes", "hello")
	assert.True(t, docstore.IsNotFound(err))
}

func TestWriteRejectsNonObject(t *testing.T) {
	store := filepath.Join(t.TempDir(), "store")
	_, err := run(t, "", "--store", store, "write", "notes", "x", `[1,2]`)
	assert.Error(t, err)
}

func TestUnknownCodec(t *testing.T) {
	_, err := run(t, "", "--store", t.TempDir(), "--codec", "xml", "list")
	assert.Error(t, err)
}

func TestStoreFromEnvironment(t *testing.T) {
	store := filepath.Join(t.TempDir(), "store")
	t.Setenv("DOCSTORE_STORE", store)

	_, err := run(t, "", "write", "c", "1", `{}`)
	require.NoError(t, err)

	out, err := run(t, "", "--store", store, "list", "c")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestSyncCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := "sqlite://" + filepath.Join(dir, "target.db")

	_, err := run(t, "", "--store", source, "write", "pets", "1", `{"name":"Rex"}`)
	require.NoError(t, err)
	_, err = run(t, "", "--store", target, "write", "pets", "stale", `{"name":"Ghost"}`)
	require.NoError(t, err)

	out, err := run(t, "", "sync", "--source", source, "--target", target, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "1 written, 1 deleted")
	assert.Contains(t, out, "docstore_sync_runs_total")

	out, err = run(t, "", "--store", target, "list", "pets")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestSyncKeepsStaleWithoutDeletes(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")

	_, err := run(t, "", "--store", source, "write", "pets", "1", `{}`)
	require.NoError(t, err)
	_, err = run(t, "", "--store", target, "write", "pets", "stale", `{}`)
	require.NoError(t, err)

	_, err = run(t, "", "sync", "--source", source, "--target", target, "--deletes=false")
	require.NoError(t, err)

	out, err := run(t, "", "--store", target, "list", "pets")
	require.NoError(t, err)
	assert.Equal(t, "1\nstale\n", out)
}

func TestSyncRequiresTarget(t *testing.T) {
	_, err := run(t, "", "sync", "--source", t.TempDir())
	assert.ErrorContains(t, err, "--target")
}

func TestSyncWatchInterval(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	_, err := run(t, "", "--store", source, "write", "pets", "1", `{}`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := runContext(t, ctx, "", "sync", "--source", source, "--target", target, "--watch", "--interval", "50ms")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strings.Count(out, "Sync "), 2)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "docstore version "+docstore.Version+"\n", out)
}

func TestSyncWatchEvents(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	_, err := run(t, "", "--store", source, "write", "pets", "1", `{}`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		time.Sleep(300 * time.Millisecond)
		_, _ = run(t, "", "--store", source, "write", "pets", "2", `{}`)
	}()

	_, err = runContext(t, ctx, "", "sync", "--source", source, "--target", target, "--watch")
	require.NoError(t, err)

	out, err := run(t, "", "--store", target, "list", "pets")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}
