package media

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["photo"][0]
}

func TestStore_SaveImage(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, "/media/")
	require.NoError(t, err)

	name, err := store.SaveImage(fileHeader(t, "me.txt", pngHeader), "profiles")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "profiles/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Equal(t, "/media/"+name, store.URL(name))

	saved, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, saved)

	require.NoError(t, store.Delete(name))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(name)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(name))
}

func TestStore_SaveImage_RejectsNonImages(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.SaveImage(fileHeader(t, "evil.png", []byte("#!/bin/sh\necho hi\n")), "profiles")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestStore_Delete_RefusesEscapes(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	for _, name := range []string{"../etc/passwd", "a/../../b", "", "/abs"} {
		assert.ErrorIs(t, store.Delete(name), ErrInvalidName, name)
	}
	assert.Equal(t, "", store.URL(""))
}

type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("complete copy is kept", func(t *testing.T) {
		full := filepath.Join(dir, "ok.png")
		require.NoError(t, writeFile(full, bytes.NewReader(pngHeader)))

		got, err := os.ReadFile(full)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, got)
	})

	t.Run("failed copy leaves no partial file", func(t *testing.T) {
		full := filepath.Join(dir, "partial.png")
		err := writeFile(full, &failingReader{data: pngHeader})
		require.Error(t, err)

		_, statErr := os.Stat(full)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("unwritable directory", func(t *testing.T) {
		err := writeFile(filepath.Join(dir, "missing", "x.png"), bytes.NewReader(pngHeader))
		assert.Error(t, err)
	})
}
