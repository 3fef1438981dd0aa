// Package template seeds the target project directory from a GitHub
// starter repository. The implementation pipeline assumes a boilerplate
// with the stack's basics already in place; this downloads one.
package template

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/forge/internal/config"
)

// ErrDestinationNotEmpty indicates the destination directory already has
// contents.
var ErrDestinationNotEmpty = errors.New("destination directory is not empty")

// maxFileSize caps one extracted file. Starter templates are small; a
// larger entry indicates a wrong or malicious archive.
const maxFileSize = 32 << 20

// Service fetches starter templates through the GitHub API.
type Service struct {
	gh   *github.Client
	http *http.Client
}

// NewService creates a template service. An unset token makes anonymous
// API calls, which is fine for public template repositories.
func NewService(ctx context.Context, token config.Secret) *Service {
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	if token.IsSet() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return &Service{gh: github.NewClient(httpClient), http: httpClient}
}

// Fetch downloads owner/repo at ref (empty for the default branch) and
// extracts it into dest, stripping the archive's top-level directory.
// dest must be empty or absent.
func (s *Service) Fetch(ctx context.Context, ownerRepo, ref, dest string) error {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("invalid template repository %q: want owner/repo", ownerRepo)
	}

	if err := ensureEmptyDir(dest); err != nil {
		return err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	url, _, err := s.gh.Repositories.GetArchiveLink(ctx, owner, repo, github.Tarball, opts, 3)
	if err != nil {
		return fmt.Errorf("failed to resolve template archive for %s: %w", ownerRepo, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build archive request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download template archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download template archive: status %s", resp.Status)
	}

	if err := extractTarball(resp.Body, dest); err != nil {
		return fmt.Errorf("failed to extract template: %w", err)
	}
	return nil
}

// ensureEmptyDir creates dest if absent and verifies it has no entries.
func ensureEmptyDir(dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", dest, err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return fmt.Errorf("failed to read destination %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, dest)
	}
	return nil
}

// extractTarball unpacks a gzipped tar stream into dest. GitHub archives
// nest everything under a single <repo>-<sha> directory, which is
// stripped. Entries escaping dest are rejected.
func extractTarball(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("not a gzip archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		rel := stripTopLevel(hdr.Name)
		if rel == "" {
			continue
		}

		target, err := secureJoin(dest, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", rel, err)
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return fmt.Errorf("writing %s: %w", rel, err)
			}
		default:
			// Symlinks and special files are skipped; templates do not
			// need them and links could escape dest.
		}
	}
}

// stripTopLevel drops the archive's single top-level directory.
func stripTopLevel(name string) string {
	name = strings.TrimPrefix(name, "./")
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return rest
}

// secureJoin joins rel under dest, rejecting path escapes.
func secureJoin(dest, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("archive entry %q has absolute path", rel)
	}
	target := filepath.Join(dest, rel)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", rel)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, maxFileSize)); err != nil {
		return err
	}
	return f.Close()
}
