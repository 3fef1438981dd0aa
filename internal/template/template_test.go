package template

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name    string
	content string
	dir     bool
}

func buildTarball(t *testing.T, entries []tarEntry) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.content))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf
}

func TestExtractTarballStripsTopLevel(t *testing.T) {
	dest := t.TempDir()
	tarball := buildTarball(t, []tarEntry{
		{name: "starter-abc123/", dir: true},
		{name: "starter-abc123/package.json", content: `{"name": "starter"}`},
		{name: "starter-abc123/app/", dir: true},
		{name: "starter-abc123/app/page.tsx", content: "export default function Page() {}"},
	})

	require.NoError(t, extractTarball(tarball, dest))

	data, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name": "starter"}`, string(data))

	_, err = os.Stat(filepath.Join(dest, "app", "page.tsx"))
	require.NoError(t, err)

	// The top-level wrapper directory itself is gone.
	_, err = os.Stat(filepath.Join(dest, "starter-abc123"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractTarballRejectsEscapes(t *testing.T) {
	dest := t.TempDir()
	tarball := buildTarball(t, []tarEntry{
		{name: "repo-sha/../../evil.txt", content: "pwned"},
	})

	err := extractTarball(tarball, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}

func TestExtractTarballRejectsGarbage(t *testing.T) {
	err := extractTarball(bytes.NewReader([]byte("not gzip")), t.TempDir())
	require.Error(t, err)
}

func TestStripTopLevel(t *testing.T) {
	assert.Equal(t, "package.json", stripTopLevel("repo-sha/package.json"))
	assert.Equal(t, "a/b/c.ts", stripTopLevel("./repo-sha/a/b/c.ts"))
	assert.Equal(t, "", stripTopLevel("repo-sha"))
}

func TestEnsureEmptyDir(t *testing.T) {
	t.Run("creates absent dir", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "new")
		require.NoError(t, ensureEmptyDir(dest))
		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects non-empty dir", func(t *testing.T) {
		dest := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dest, "existing.txt"), []byte("x"), 0o644))
		err := ensureEmptyDir(dest)
		require.ErrorIs(t, err, ErrDestinationNotEmpty)
	})
}
