package mediaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-TOKEN"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc(fmt.Sprintf("/bot%s/getFile", testToken), func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("file_id") {
		case "known":
			w.Header().Set("content-type", "application/json")
			fmt.Fprint(w, `{"ok":true,"result":{"file_id":"known","file_path":"photos/file_1.jpg","file_size":512}}`)
		case "forbidden":
			w.Header().Set("content-type", "application/json")
			fmt.Fprint(w, `{"ok":true,"result":{"file_id":"forbidden","file_path":"photos/file_2.jpg","file_size":512}}`)
		case "ratelimited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"ok":false,"description":"Bad Request: invalid file_id"}`)
		}
	})

	mux.HandleFunc(fmt.Sprintf("/file/bot%s/photos/file_1.jpg", testToken), func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	})

	mux.HandleFunc(fmt.Sprintf("/file/bot%s/photos/file_2.jpg", testToken), func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"ok":false,"error_code":403,"description":"Forbidden"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestFilePath(t *testing.T) {
	srv := newTestServer(t)
	client := New(testToken, WithBaseURL(srv.URL))

	ctx := context.Background()

	path, err := client.FilePath(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, "photos/file_1.jpg", path)

	_, err = client.FilePath(ctx, "missing")
	require.ErrorIs(t, err, ErrFileNotFound)

	_, err = client.FilePath(ctx, "ratelimited")
	require.ErrorIs(t, err, ErrTooManyRequests)
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t)
	client := New(testToken, WithBaseURL(srv.URL))

	ctx := context.Background()

	data, err := client.Download(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	_, err = client.Download(ctx, "missing")
	require.ErrorIs(t, err, ErrFileNotFound)

	// A non-2xx status outside the known set must not be returned as
	// file bytes.
	data, err = client.Download(ctx, "forbidden")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response status")
	assert.Nil(t, data)
}
