package booster

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/platform/git"
	"github.com/imamik/missioncontrol/internal/platform/s3"
)

// maxArchiveEntrySize bounds a single extracted file.
const maxArchiveEntrySize = 512 << 20

// ArchiveStore opens archive objects referenced by s3:// URLs.
type ArchiveStore interface {
	OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Stager materializes booster source into a working directory.
type Stager struct {
	// Clone defaults to git.Clone.
	Clone CloneFunc

	// Store serves s3:// archives. Nil rejects them.
	Store ArchiveStore
}

// Stage writes b's source into dest. A dest that already has content is
// considered staged and left untouched.
func (s *Stager) Stage(ctx context.Context, b Booster, dest string) error {
	logger := log.FromContext(ctx).WithValues("booster", b.ID, "dest", dest)

	staged, err := hasContent(dest)
	if err != nil {
		return err
	}
	if staged {
		logger.V(1).Info("booster source already staged")
		return nil
	}

	if b.Source.IsGit() {
		return s.stageGit(ctx, logger, b, dest)
	}
	if b.Source.Archive != "" {
		return s.stageArchive(ctx, logger, b, dest)
	}
	return fmt.Errorf("booster %s has no source", b.ID)
}

func (s *Stager) stageGit(ctx context.Context, logger logr.Logger, b Booster, dest string) error {
	clone := s.Clone
	if clone == nil {
		clone = git.Clone
	}

	tmp, err := stagingDir(dest)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	logger.Info("cloning booster source", "url", b.Source.GitURL, "ref", b.Source.GitRef)
	err = clone(ctx, git.CloneOptions{
		URL:   b.Source.GitURL,
		Ref:   b.Source.GitRef,
		Dest:  tmp,
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to clone booster source %s: %w", b.Source.GitURL, err)
	}

	// A clone done by another implementation may leave its metadata behind.
	if err := os.RemoveAll(filepath.Join(tmp, ".git")); err != nil {
		return fmt.Errorf("failed to remove clone metadata: %w", err)
	}
	return moveContents(tmp, dest)
}

func (s *Stager) stageArchive(ctx context.Context, logger logr.Logger, b Booster, dest string) error {
	logger.Info("extracting booster archive", "archive", b.Source.Archive)

	r, err := s.openArchive(ctx, b.Source.Archive)
	if err != nil {
		return err
	}
	defer r.Close()

	tmp, err := stagingDir(dest)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := extractTarGz(r, tmp); err != nil {
		return fmt.Errorf("failed to extract %s: %w", b.Source.Archive, err)
	}

	root, err := archiveRoot(tmp)
	if err != nil {
		return err
	}
	return moveContents(root, dest)
}

func (s *Stager) openArchive(ctx context.Context, ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "s3://") {
		bucket, key, ok := s3.ParseURL(ref)
		if !ok {
			return nil, fmt.Errorf("invalid archive URL %q", ref)
		}
		if s.Store == nil {
			return nil, fmt.Errorf("archive %s needs an object store", ref)
		}
		return s.Store.OpenObject(ctx, bucket, key)
	}

	f, err := os.Open(ref) //nolint:gosec // archive path comes from the catalog
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return f, nil
}

func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Links and devices are not part of booster sources.
		}
	}
}

func writeEntry(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o600) //nolint:gosec // target validated by safeJoin
	if err != nil {
		return err
	}
	n, err := io.Copy(f, io.LimitReader(r, maxArchiveEntrySize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if n > maxArchiveEntrySize {
		return fmt.Errorf("archive entry %s exceeds %d bytes", filepath.Base(target), maxArchiveEntrySize)
	}
	return nil
}

// safeJoin resolves name below dest and rejects entries that would escape it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

// archiveRoot returns the single top-level directory of an extracted
// archive, or dir itself when the archive has a flat layout.
func archiveRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

// stagingDir creates a scratch directory next to dest. Content only reaches
// dest once it is complete, so a failed attempt never looks staged.
func stagingDir(dest string) (string, error) {
	parent := filepath.Dir(filepath.Clean(dest))
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("failed to create staging parent: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, ".stage-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return tmp, nil
}

func moveContents(src, dest string) error {
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return fmt.Errorf("failed to create staging path: %w", err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Rename(filepath.Join(src, e.Name()), filepath.Join(dest, e.Name())); err != nil {
			return fmt.Errorf("failed to move %s into staging path: %w", e.Name(), err)
		}
	}
	return nil
}

func hasContent(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read staging path: %w", err)
	}
	return len(entries) > 0, nil
}
