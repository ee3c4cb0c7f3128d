package booster

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/missioncontrol/internal/platform/git"
)

// DirLoader indexes booster.yaml files below Root.
type DirLoader struct {
	Root string
}

// Load walks Root in lexical order and parses every descriptor.
func (l DirLoader) Load(ctx context.Context) ([]Booster, error) {
	if l.Root == "" {
		return nil, errors.New("catalog root cannot be empty")
	}

	var boosters []Booster
	err := filepath.WalkDir(l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != MetadataFile {
			return nil
		}

		data, err := os.ReadFile(p) //nolint:gosec // path comes from walking the catalog root
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		rel, err := filepath.Rel(l.Root, p)
		if err != nil {
			return err
		}
		loc := locationFromPath(rel, false)
		dir := filepath.Dir(p)
		loc.resolveArchive = func(ref string) string {
			return filepath.Join(dir, ref)
		}

		b, err := parseDescriptor(data, loc)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		boosters = append(boosters, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return boosters, nil
}

// CloneFunc clones a git repository. It matches git.Clone.
type CloneFunc func(ctx context.Context, opts git.CloneOptions) error

// GitLoader indexes a catalog published as a git repository.
type GitLoader struct {
	URL string
	Ref string

	// Path is a subdirectory of the repository holding the catalog.
	Path string

	// TempDir is where the catalog is cloned. Empty uses os.TempDir().
	TempDir string

	// Clone defaults to git.Clone.
	Clone CloneFunc

	Logger logr.Logger
}

// Load clones the catalog shallowly and indexes the working tree.
func (l GitLoader) Load(ctx context.Context) ([]Booster, error) {
	clone := l.Clone
	if clone == nil {
		clone = git.Clone
	}
	logger := l.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	dir, err := os.MkdirTemp(l.TempDir, "booster-catalog-")
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog checkout directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Error(err, "failed to remove catalog checkout", "dir", dir)
		}
	}()

	logger.V(1).Info("cloning booster catalog", "url", l.URL, "ref", l.Ref)
	if err := clone(ctx, git.CloneOptions{URL: l.URL, Ref: l.Ref, Dest: dir, Depth: 1}); err != nil {
		return nil, fmt.Errorf("failed to clone catalog %s: %w", l.URL, err)
	}

	return DirLoader{Root: filepath.Join(dir, filepath.FromSlash(l.Path))}.Load(ctx)
}

// ObjectStore is the subset of the S3 client the catalog reads through.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjectsWithSuffix(ctx context.Context, bucket, prefix, suffix string) ([]string, error)
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Loader indexes booster.yaml objects stored under Prefix in Bucket.
// Relative archive references resolve to keys next to their descriptor.
type S3Loader struct {
	Store  ObjectStore
	Bucket string
	Prefix string
}

// Load lists and parses every descriptor under Prefix.
func (l S3Loader) Load(ctx context.Context) ([]Booster, error) {
	exists, err := l.Store.BucketExists(ctx, l.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("catalog bucket %s does not exist", l.Bucket)
	}

	keys, err := l.Store.ListObjectsWithSuffix(ctx, l.Bucket, l.Prefix, "/"+MetadataFile)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	boosters := make([]Booster, 0, len(keys))
	for _, key := range keys {
		data, err := l.Store.GetObject(ctx, l.Bucket, key)
		if err != nil {
			return nil, err
		}

		loc := locationFromPath(strings.TrimPrefix(key, strings.TrimSuffix(l.Prefix, "/")+"/"), true)
		dir := path.Dir(key)
		loc.resolveArchive = func(ref string) string {
			return "s3://" + l.Bucket + "/" + path.Join(dir, ref)
		}

		b, err := parseDescriptor(data, loc)
		if err != nil {
			return nil, fmt.Errorf("s3://%s/%s: %w", l.Bucket, key, err)
		}
		boosters = append(boosters, b)
	}
	return boosters, nil
}
