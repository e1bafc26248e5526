// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return store
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNeedsConversion_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	// No record yet.
	assert.True(t, store.NeedsConversion(source, output))

	_, err := store.Save(source, output, "")
	require.NoError(t, err)
	assert.False(t, store.NeedsConversion(source, output))

	// Missing output forces reconversion regardless of the record.
	require.NoError(t, os.Remove(output))
	assert.True(t, store.NeedsConversion(source, output))
}

func TestNeedsConversion_MtimeTouch(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	_, err := store.Save(source, output, "")
	require.NoError(t, err)

	// Touch forward: stale even with identical content.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, future, future))
	assert.True(t, store.NeedsConversion(source, output))

	// Touch backward: fresh, mtime is the only criterion.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(source, past, past))
	assert.False(t, store.NeedsConversion(source, output))
}

func TestGet_CorruptedRecordIsAbsent(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")

	sum := md5.Sum([]byte(source))
	path := filepath.Join(store.Dir(), hex.EncodeToString(sum[:])+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := store.Get(source)
	assert.False(t, ok)
}

func TestSave_RecordFields(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	rec, err := store.Save(source, output, "")
	require.NoError(t, err)

	assert.Equal(t, source, rec.Source)
	assert.Equal(t, output, rec.Output)
	assert.Equal(t, FormatVersion, rec.Version)
	assert.Len(t, rec.SourceHash, 64)
	_, err = time.Parse(time.RFC3339, rec.ConvertedAt)
	assert.NoError(t, err)

	info, err := os.Stat(source)
	require.NoError(t, err)
	assert.InDelta(t, float64(info.ModTime().UnixNano())/1e9, rec.SourceMtime, 0.001)
}

func TestSave_OnDiskKeyNames(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	_, err := store.Save(source, output, "")
	require.NoError(t, err)

	sum := md5.Sum([]byte(source))
	data, err := os.ReadFile(filepath.Join(store.Dir(), hex.EncodeToString(sum[:])+".json"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"source", "output", "source_mtime", "source_hash", "converted_at", "documark_version"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 6)
}

func TestSave_PrecomputedHash(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	rec, err := store.Save(source, output, "feedface")
	require.NoError(t, err)
	assert.Equal(t, "feedface", rec.SourceHash)
}

func TestClean(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	kept := writeSource(t, dir, "kept.pdf", "a")
	gone := writeSource(t, dir, "gone.pdf", "b")
	old := writeSource(t, dir, "old.pdf", "c")

	for _, src := range []string{kept, gone, old} {
		out := src + ".md"
		require.NoError(t, os.WriteFile(out, []byte("md"), 0o644))
		_, err := store.Save(src, out, "")
		require.NoError(t, err)
	}

	// Vanished source.
	require.NoError(t, os.Remove(gone))

	// Backdate one record past the age threshold.
	rec, ok := store.Get(old)
	require.True(t, ok)
	rec.ConvertedAt = time.Now().Add(-60 * 24 * time.Hour).Format(time.RFC3339)
	data, err := json.MarshalIndent(rec, "", "  ")
	require.NoError(t, err)
	sum := md5.Sum([]byte(old))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), hex.EncodeToString(sum[:])+".json"), data, 0o644))

	// Corrupted record.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bogus.json"), []byte("not json"), 0o644))

	removed, err := store.Clean(30)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	// The healthy record survives.
	_, ok = store.Get(kept)
	assert.True(t, ok)
}

func TestClean_NoAgeThreshold(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	source := writeSource(t, dir, "report.pdf", "pdf bytes")
	output := writeSource(t, dir, "report.md", "# Report")

	_, err := store.Save(source, output, "")
	require.NoError(t, err)

	rec, ok := store.Get(source)
	require.True(t, ok)
	rec.ConvertedAt = time.Now().Add(-365 * 24 * time.Hour).Format(time.RFC3339)
	data, err := json.MarshalIndent(rec, "", "  ")
	require.NoError(t, err)
	sum := md5.Sum([]byte(source))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), hex.EncodeToString(sum[:])+".json"), data, 0o644))

	// Age is only considered when a positive threshold is given.
	removed, err := store.Clean(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "f.txt", "hello")

	got, err := FileHash(path)
	require.NoError(t, err)
	// SHA-256 of "hello".
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
}
