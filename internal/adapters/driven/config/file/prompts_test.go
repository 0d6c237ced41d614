package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = map[string]string{
	"answer":  "Context: %s\nQuestion: %s",
	"reframe": "History: %s\nQuery: %s",
}

func TestLoadReturnsDefaultAndSeedsFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)

	prompt, err := store.Load("answer")
	require.NoError(t, err)
	assert.Equal(t, testDefaults["answer"], prompt)

	// First load created the editable files.
	_, err = os.Stat(filepath.Join(dir, "answer.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "reframe.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)
}

func TestLoadPrefersFileContent(t *testing.T) {
	dir := t.TempDir()
	custom := "My custom answer prompt %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(custom+"\n"), 0600))

	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)

	prompt, err := store.Load("answer")
	require.NoError(t, err)
	assert.Equal(t, custom, prompt, "file content wins over default, trailing whitespace trimmed")
}

func TestLoadUnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir(), testDefaults)
	require.NoError(t, err)

	_, err = store.Load("nonexistent")
	assert.Error(t, err)
}

func TestReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)

	_, err = store.Load("answer")
	require.NoError(t, err)

	edited := "Edited %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(edited), 0600))

	// Cached value until an explicit reload.
	prompt, err := store.Load("answer")
	require.NoError(t, err)
	assert.Equal(t, testDefaults["answer"], prompt)

	store.Reload()

	prompt, err = store.Load("answer")
	require.NoError(t, err)
	assert.Equal(t, edited, prompt)
}

func TestWatchInvalidatesCacheOnWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)

	_, err = store.Load("answer")
	require.NoError(t, err)

	require.NoError(t, store.Watch())
	defer store.Close()

	edited := "Hot reloaded %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(edited), 0600))

	// The watcher delivers events asynchronously.
	assert.Eventually(t, func() bool {
		prompt, err := store.Load("answer")
		return err == nil && prompt == edited
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCloseWithoutWatchIsNoop(t *testing.T) {
	store, err := NewPromptStore(t.TempDir(), testDefaults)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
