package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

const (
	// SharedSuffix and PrivateSuffix name the two side files kept per
	// document. The shared file is meant to be committed; the private one
	// belongs in .gitignore.
	SharedSuffix  = ".comments.json"
	PrivateSuffix = ".comments.private.json"

	cacheSize = 512
)

var (
	// ErrNoPersistedSet means neither side file exists for the document.
	ErrNoPersistedSet = errors.New("no persisted comment set")
	// ErrMalformedSet means a side file exists but cannot be parsed at all.
	ErrMalformedSet = errors.New("malformed comment set")
)

// Store persists comment sets as JSON side files under a store directory
// that mirrors the workspace tree. Loads are cached; cached sets are
// cloned on the way out so callers never alias each other.
type Store struct {
	workspace string
	dir       string
	cache     *lru.Cache[string, *models.CommentSet]
}

// New creates a store rooted at workspace. dir may be absolute or
// workspace-relative.
func New(workspace, dir string) (*Store, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace %s: %w", workspace, err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(abs, dir)
	}
	cache, err := lru.New[string, *models.CommentSet](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{workspace: abs, dir: dir, cache: cache}, nil
}

// Workspace returns the absolute workspace root.
func (s *Store) Workspace() string { return s.workspace }

// Dir returns the absolute store directory.
func (s *Store) Dir() string { return s.dir }

// RelPath converts a document path to the slash-separated workspace-
// relative form used as the store key.
func (s *Store) RelPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.workspace, path)
	}
	rel, err := filepath.Rel(s.workspace, path)
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s escapes the workspace", path)
	}
	return rel, nil
}

// AbsPath converts a store key back to the document's absolute path.
func (s *Store) AbsPath(relPath string) string {
	return filepath.Join(s.workspace, filepath.FromSlash(relPath))
}

// SharedPath returns the shared side file location for a document.
func (s *Store) SharedPath(relPath string) string {
	return filepath.Join(s.dir, filepath.FromSlash(relPath)+SharedSuffix)
}

// PrivatePath returns the private side file location for a document.
func (s *Store) PrivatePath(relPath string) string {
	return filepath.Join(s.dir, filepath.FromSlash(relPath)+PrivateSuffix)
}

// Load reads both partitions for a document and merges them into one set,
// private records flagged. Returns ErrNoPersistedSet when neither side
// file exists.
func (s *Store) Load(relPath string) (*models.CommentSet, error) {
	if cached, ok := s.cache.Get(relPath); ok {
		return cached.Clone(), nil
	}

	shared, sharedErr := s.loadFile(s.SharedPath(relPath))
	private, privateErr := s.loadFile(s.PrivatePath(relPath))
	if sharedErr != nil && !errors.Is(sharedErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("shared set for %s: %w", relPath, sharedErr)
	}
	if privateErr != nil && !errors.Is(privateErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("private set for %s: %w", relPath, privateErr)
	}
	if shared == nil && private == nil {
		return nil, fmt.Errorf("%s: %w", relPath, ErrNoPersistedSet)
	}

	set := &models.CommentSet{File: relPath}
	if shared != nil {
		set.LastModified = shared.LastModified
		set.Records = shared.Records
	}
	if private != nil {
		if private.LastModified.After(set.LastModified) {
			set.LastModified = private.LastModified
		}
		for i := range private.Records {
			private.Records[i].IsPrivate = true
		}
		set.Records = append(set.Records, private.Records...)
		sort.SliceStable(set.Records, func(a, b int) bool {
			return set.Records[a].OriginalLine < set.Records[b].OriginalLine
		})
	}
	s.cache.Add(relPath, set.Clone())
	return set, nil
}

// Save splits the set into its partitions and writes them. The private
// side file omits the isPrivate flag, implied by its location; an empty
// partition removes its file. LastModified is stamped here.
func (s *Store) Save(relPath string, set *models.CommentSet) error {
	out := set.Clone()
	out.File = relPath
	out.LastModified = time.Now().UTC()
	set.LastModified = out.LastModified

	shared := &models.CommentSet{File: relPath, LastModified: out.LastModified, Records: out.Shared()}
	private := &models.CommentSet{File: relPath, LastModified: out.LastModified, Records: out.Private()}
	for i := range private.Records {
		private.Records[i].IsPrivate = false
	}

	if err := s.writeFile(s.SharedPath(relPath), shared); err != nil {
		return fmt.Errorf("shared set for %s: %w", relPath, err)
	}
	if err := s.writeFile(s.PrivatePath(relPath), private); err != nil {
		return fmt.Errorf("private set for %s: %w", relPath, err)
	}
	if len(out.Records) == 0 {
		s.cache.Remove(relPath)
		return nil
	}
	s.cache.Add(relPath, out)
	return nil
}

// Delete removes both side files and the cache entry for a document.
func (s *Store) Delete(relPath string) error {
	s.cache.Remove(relPath)
	for _, p := range []string{s.SharedPath(relPath), s.PrivatePath(relPath)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// Invalidate drops a cached set after the side files changed on disk.
func (s *Store) Invalidate(relPath string) {
	s.cache.Remove(relPath)
}

// List walks the store directory and returns the workspace-relative path
// of every document with a shared side file.
func (s *Store) List() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, SharedSuffix) || strings.HasSuffix(path, PrivateSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, strings.TrimSuffix(path, SharedSuffix))
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// loadFile reads one side file. Cleanly missing files surface
// fs.ErrNotExist; unparseable files surface ErrMalformedSet; files with
// individually broken records are salvaged with a warning.
func (s *Store) loadFile(path string) (*models.CommentSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set models.CommentSet
	if err := json.Unmarshal(data, &set); err == nil {
		return &set, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedSet
	}

	root := gjson.ParseBytes(data)
	records := root.Get("records")
	if !records.IsArray() {
		return nil, ErrMalformedSet
	}
	set = models.CommentSet{File: root.Get("file").String()}
	if ts := root.Get("lastModified").String(); ts != "" {
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			set.LastModified = parsed
		}
	}
	skipped := 0
	for _, item := range records.Array() {
		var rec models.CommentRecord
		if uerr := json.Unmarshal([]byte(item.Raw), &rec); uerr != nil {
			skipped++
			continue
		}
		set.Records = append(set.Records, rec)
	}
	logger.Warn("Salvaged %s: kept %d records, skipped %d", path, len(set.Records), skipped)
	return &set, nil
}

// writeFile persists one partition, removing the file when the partition
// is empty.
func (s *Store) writeFile(path string, set *models.CommentSet) error {
	if len(set.Records) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
