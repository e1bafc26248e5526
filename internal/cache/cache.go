// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists per-source conversion records and answers whether a
// source needs reconversion. Each record is one JSON file keyed by an MD5 of
// the source's absolute path, so concurrent jobs touch distinct files and
// filesystem-unsafe source paths never leak into the cache directory.
//
// Staleness is decided by modification time alone. The content hash is
// computed and stored with every record but is not consulted by
// NeedsConversion: a touch-without-change forces one redundant conversion,
// and an mtime-preserving edit is missed. That trade was made for speed and
// is kept as documented behavior.
package cache

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FormatVersion tags every record with the cache schema version.
const FormatVersion = "0.1.0"

// DefaultDir is the cache directory used when none is configured.
const DefaultDir = ".documark_cache"

// Record is one conversion fact, serialized as a JSON file per source.
// The key names are a stable on-disk contract.
type Record struct {
	// Source is the absolute source path.
	Source string `json:"source"`

	// Output is the absolute output path of the last conversion.
	Output string `json:"output"`

	// SourceMtime is the source's modification time at the last
	// successful conversion, as epoch seconds.
	SourceMtime float64 `json:"source_mtime"`

	// SourceHash is the hex SHA-256 of the source content at that time.
	SourceHash string `json:"source_hash"`

	// ConvertedAt is the wall-clock conversion timestamp, RFC 3339.
	ConvertedAt string `json:"converted_at"`

	// Version is the cache format version that wrote the record.
	Version string `json:"documark_version"`
}

// Store manages the on-disk conversion cache.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) the cache directory. An empty dir
// selects DefaultDir under the current working directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = filepath.Join(cwd, DefaultDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// recordPath derives the record file path for a source. The key is the MD5
// of the absolute source path.
func (s *Store) recordPath(source string) string {
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	sum := md5.Sum([]byte(abs))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get reads the record for a source. An unreadable or unparsable record is
// reported as absent; corruption never blocks operation.
func (s *Store) Get(source string) (Record, bool) {
	data, err := os.ReadFile(s.recordPath(source))
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// NeedsConversion reports whether a source must be (re)converted: the output
// is missing, no record exists, or the source's modification time is strictly
// newer than the recorded one.
func (s *Store) NeedsConversion(source, output string) bool {
	if _, err := os.Stat(output); err != nil {
		return true
	}

	rec, ok := s.Get(source)
	if !ok {
		return true
	}

	info, err := os.Stat(source)
	if err != nil {
		return true
	}
	return mtimeSeconds(info.ModTime()) > rec.SourceMtime
}

// Save writes the record for a successful conversion. When precomputedHash
// is empty the source content is hashed here.
func (s *Store) Save(source, output, precomputedHash string) (Record, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return Record{}, fmt.Errorf("resolving source path: %w", err)
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return Record{}, fmt.Errorf("resolving output path: %w", err)
	}

	info, err := os.Stat(absSource)
	if err != nil {
		return Record{}, fmt.Errorf("stat source %s: %w", absSource, err)
	}

	hash := precomputedHash
	if hash == "" {
		hash, err = FileHash(absSource)
		if err != nil {
			return Record{}, fmt.Errorf("hashing source %s: %w", absSource, err)
		}
	}

	rec := Record{
		Source:      absSource,
		Output:      absOutput,
		SourceMtime: mtimeSeconds(info.ModTime()),
		SourceHash:  hash,
		ConvertedAt: time.Now().Format(time.RFC3339),
		Version:     FormatVersion,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("marshaling record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(source), data, 0o644); err != nil {
		return Record{}, fmt.Errorf("writing record: %w", err)
	}
	return rec, nil
}

// Clean removes records whose source no longer exists and, when olderThanDays
// is positive, records older than that threshold. Records that fail to parse
// are treated as corrupted and removed. Returns the number removed.
func (s *Store) Clean(olderThanDays int) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("listing cache directory: %w", err)
	}

	now := time.Now()
	count := 0
	for _, path := range matches {
		rec, ok := readRecord(path)
		if !ok {
			// Corrupted record.
			if os.Remove(path) == nil {
				count++
			}
			continue
		}

		if _, err := os.Stat(rec.Source); err != nil {
			if os.Remove(path) == nil {
				count++
			}
			continue
		}

		if olderThanDays > 0 {
			converted, err := time.Parse(time.RFC3339, rec.ConvertedAt)
			if err != nil {
				if os.Remove(path) == nil {
					count++
				}
				continue
			}
			if now.Sub(converted) > time.Duration(olderThanDays)*24*time.Hour {
				if os.Remove(path) == nil {
					count++
				}
			}
		}
	}
	return count, nil
}

// FileHash computes the hex SHA-256 of a file's content, streaming.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readRecord(path string) (Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	// A record without a source path cannot be validated against disk.
	if rec.Source == "" {
		return Record{}, false
	}
	return rec, true
}

func mtimeSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
