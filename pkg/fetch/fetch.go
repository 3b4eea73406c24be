// Package fetch downloads and unpacks a template bundle tarball so the
// installer can run without a local checkout.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

const (
	defaultTimeout = 60 * time.Second

	// maxFileSize caps a single extracted file. Bundles hold a template
	// definition and a small collector script; anything bigger is bogus.
	maxFileSize = 32 << 20
)

// Fetcher downloads bundle tarballs.
type Fetcher struct {
	http *http.Client
	log  zerolog.Logger
}

// New creates a fetcher. A nil client gets a sane default timeout.
func New(client *http.Client, log zerolog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{http: client, log: log.With().Str("component", "fetch").Logger()}
}

// Fetch downloads the gzipped tarball at url and extracts it under dir.
// It returns the extraction root.
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building bundle request: %w", err)
	}

	f.log.Info().Str("url", url).Msg("downloading bundle")
	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading bundle: unexpected status %s", resp.Status)
	}

	root := filepath.Join(dir, "bundle")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	if err := extract(resp.Body, root); err != nil {
		return "", fmt.Errorf("extracting bundle: %w", err)
	}

	f.log.Info().Str("dir", root).Msg("bundle extracted")
	return root, nil
}

// extract unpacks a gzipped tar stream under root, refusing entries that
// would escape it.
func extract(r io.Reader, root string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := sanitize(root, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Symlinks and specials never appear in a legitimate bundle.
			return fmt.Errorf("unsupported entry type %c for %q", hdr.Typeflag, hdr.Name)
		}
	}
}

// sanitize resolves a tar entry name inside root and rejects traversal.
func sanitize(root, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("bundle entry %q escapes extraction root", name)
	}
	return filepath.Join(root, cleaned), nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(r, maxFileSize)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Locate finds the bundle directory for a platform/product pair under
// root. Tarballs from a repository export carry a top-level directory, so
// the conventional templates/<platform>/<product> path is tried at root
// and one level down before falling back to a walk for requirements.yaml.
func Locate(root, platform, product string) (string, error) {
	conventional := filepath.Join("templates", platform, product)

	candidates := []string{filepath.Join(root, conventional)}
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			candidates = append(candidates, filepath.Join(root, e.Name(), conventional))
		}
	}

	for _, dir := range candidates {
		if hasRequirements(dir) {
			return dir, nil
		}
	}

	// Fall back to the first directory holding a requirements document.
	var found string
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found == "" && d.IsDir() && hasRequirements(path) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return "", walkErr
	}
	if found == "" {
		return "", fmt.Errorf("no %s found under %s for %s/%s", requirements.FileName, root, platform, product)
	}
	return found, nil
}

func hasRequirements(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, requirements.FileName))
	return err == nil && info.Mode().IsRegular()
}
