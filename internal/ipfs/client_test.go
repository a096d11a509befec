package ipfs_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/ipfs"
)

func TestUpload(t *testing.T) {
	var gotName string
	var gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v0/add", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotName = header.Filename
		body, _ := io.ReadAll(file)
		gotBody = string(body)

		w.Write([]byte(`{"Name":"track.mp3","Hash":"QmTestHash","Size":"11"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := ipfs.NewClient(srv.URL)
	res, err := c.Upload(context.Background(), "track.mp3", strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "QmTestHash", res.Hash)
	assert.Equal(t, uint64(11), res.Size)
	assert.Equal(t, "track.mp3", gotName)
	assert.Equal(t, "audio-bytes", gotBody)
}

func TestUploadNodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := ipfs.NewClient(srv.URL)
	_, err := c.Upload(context.Background(), "track.mp3", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestUploadMissingHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Name":"x"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := ipfs.NewClient(srv.URL)
	_, err := c.Upload(context.Background(), "x", strings.NewReader("x"))
	assert.ErrorContains(t, err, "no hash")
}
