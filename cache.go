package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
)

const (
	BUILDS_DIR   = "builds"
	IMAGE_SUFFIX = ".intcode"
	HASH_FILE    = ".hash"
	LOCK_FILE    = ".lock"

	keepBuilds   = 16
	minBuildAge  = 7 * 24 * 60 * 60 // seconds
	shortHashLen = 8
)

// isHashDir returns true if name is an 8-char hex string (matches shortHash format).
func isHashDir(name string) bool {
	if len(name) != shortHashLen {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

// sourceHash hashes the compiler version and the program text. Returns the
// short hash (directory name) and the full hash (collision check).
func sourceHash(src []byte) (shortHash, fullHash string) {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte{0})
	h.Write(src)
	fullHash = hex.EncodeToString(h.Sum(nil))
	return fullHash[:shortHashLen], fullHash
}

// cleanupOldBuilds removes old build hash directories.
// Only deletes directories older than minAge AND keeps at least 'keep' most recent,
// so directories a concurrent process may still read are left alone.
func cleanupOldBuilds(buildsDir string, keep int, minAge int64) {
	entries, err := os.ReadDir(buildsDir)
	if err != nil || len(entries) <= keep {
		return
	}

	type dirInfo struct {
		name  string
		mtime int64
	}
	var dirs []dirInfo
	for _, e := range entries {
		if e.IsDir() && isHashDir(e.Name()) {
			if info, err := e.Info(); err == nil {
				dirs = append(dirs, dirInfo{e.Name(), info.ModTime().Unix()})
			}
		}
	}

	if len(dirs) <= keep {
		return
	}

	// oldest first
	cutoff := time.Now().Unix() - minAge
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].mtime < dirs[j].mtime })
	for i := 0; i < len(dirs)-keep; i++ {
		if dirs[i].mtime < cutoff {
			path := filepath.Join(buildsDir, dirs[i].name)
			if err := os.RemoveAll(path); err != nil {
				logf("warning: failed to remove old build %s: %v", path, err)
			}
		}
	}
}

// cachedBuild returns the path of the cached image for src, running build
// to produce it on a miss. A file lock makes concurrent processes see
// either a complete image or build it themselves.
func cachedBuild(cacheDir, srcPath string, src []byte, build func() ([]int64, error)) (string, error) {
	buildsDir := filepath.Join(cacheDir, BUILDS_DIR)
	if err := os.MkdirAll(buildsDir, 0755); err != nil {
		return "", fmt.Errorf("create builds dir: %w", err)
	}

	lock := flock.New(filepath.Join(buildsDir, LOCK_FILE))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire build lock: %w", err)
	}
	defer lock.Unlock()

	shortHash, fullHash := sourceHash(src)
	dir := filepath.Join(buildsDir, shortHash)
	out := filepath.Join(dir, artifactName(srcPath))
	hashFile := filepath.Join(dir, HASH_FILE)

	if storedHash, err := os.ReadFile(hashFile); err == nil {
		if string(storedHash) == fullHash {
			if _, err := os.Stat(out); err == nil {
				verbosef("using cached build: %s", out)
				return out, nil
			}
		} else {
			verbosef("build hash mismatch, rebuilding: %s", dir)
			os.RemoveAll(dir)
		}
	}

	cleanupOldBuilds(buildsDir, keepBuilds, minBuildAge)

	image, err := build()
	if err != nil {
		return "", err
	}
	verbosef("writing build: %s", out)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create build dir: %w", err)
	}
	if err := writeImageFile(out, image); err != nil {
		return "", err
	}
	// completion marker, written last
	if err := os.WriteFile(hashFile, []byte(fullHash), 0644); err != nil {
		return "", fmt.Errorf("write hash file: %w", err)
	}
	return out, nil
}
