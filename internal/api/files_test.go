package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formServer serves a fixed body and records each request's form values
// and path for later assertions.
type formServer struct {
	*httptest.Server

	paths []string
	forms []url.Values
}

func newFormServer(t *testing.T, body func(path string, form url.Values) string) *formServer {
	t.Helper()

	fs := &formServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))

		fs.paths = append(fs.paths, r.URL.Path)
		fs.forms = append(fs.forms, form)

		fmt.Fprint(w, body(r.URL.Path, form))
	}))
	t.Cleanup(fs.Close)

	return fs
}

func (fs *formServer) lastForm() url.Values {
	if len(fs.forms) == 0 {
		return nil
	}

	return fs.forms[len(fs.forms)-1]
}

func TestGetFileInfo(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"file_info":{
			"quickkey":"qk1","filename":"notes.txt","size":"2048",
			"hash":"abc123","mimetype":"text/plain","privacy":"private",
			"created":"2024-03-15 10:30:00"}`)
	})

	client := newTestClient(t, srv.URL)

	info, err := client.GetFileInfo(context.Background(), "qk1")
	require.NoError(t, err)

	assert.Equal(t, "qk1", info.QuickKey)
	assert.Equal(t, "notes.txt", info.Name)
	assert.Equal(t, int64(2048), info.Size)
	assert.Equal(t, "abc123", info.Hash)
	assert.Equal(t, "text/plain", info.MimeType)
	assert.Equal(t, PrivacyPrivate, info.Privacy)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), info.Created)

	assert.Equal(t, "qk1", srv.lastForm().Get("quick_key"))
}

func TestGetFileInfo_GarbageNumericsZeroed(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"file_info":{"quickkey":"qk1","filename":"a","size":"not-a-number","created":"garbage"}`)
	})

	client := newTestClient(t, srv.URL)

	info, err := client.GetFileInfo(context.Background(), "qk1")
	require.NoError(t, err)
	assert.Zero(t, info.Size)
	assert.True(t, info.Created.IsZero())
}

func TestRenameFile(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)

	require.NoError(t, client.RenameFile(context.Background(), "qk1", "renamed.txt"))

	form := srv.lastForm()
	assert.Equal(t, "qk1", form.Get("quick_key"))
	assert.Equal(t, "renamed.txt", form.Get("filename"))
	assert.Equal(t, "/api/1.5/file/update.php", srv.paths[0])
}

func TestSetFilePrivacy(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)

	require.NoError(t, client.SetFilePrivacy(context.Background(), "qk1", PrivacyPublic))
	assert.Equal(t, "public", srv.lastForm().Get("privacy"))
}

func TestSetFilePrivacy_RejectsUnknownValue(t *testing.T) {
	client := newTestClient(t, "http://unused")

	err := client.SetFilePrivacy(context.Background(), "qk1", "friends-only")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid privacy")
}

func TestCopyFile(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"new_quickkeys":["qkNew"]`)
	})

	client := newTestClient(t, srv.URL)

	newKey, err := client.CopyFile(context.Background(), "qk1", "dstF")
	require.NoError(t, err)
	assert.Equal(t, "qkNew", newKey)

	form := srv.lastForm()
	assert.Equal(t, "qk1", form.Get("quick_key"))
	assert.Equal(t, "dstF", form.Get("folder_key"))
}

func TestCopyFile_EmptyKeyList(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"new_quickkeys":[]`)
	})

	client := newTestClient(t, srv.URL)

	_, err := client.CopyFile(context.Background(), "qk1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no new quickkey")
}

func TestDeletePurgeRestore(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, client.DeleteFile(ctx, "qk1"))
	require.NoError(t, client.PurgeFile(ctx, "qk1"))
	require.NoError(t, client.RestoreFile(ctx, "qk1"))

	assert.Equal(t, []string{
		"/api/1.5/file/delete.php",
		"/api/1.5/file/purge.php",
		"/api/1.5/file/restore.php",
	}, srv.paths)
}

func TestGetFilesInfo_SkipsFailures(t *testing.T) {
	srv := newFormServer(t, func(_ string, form url.Values) string {
		if form.Get("quick_key") == "qkBad" {
			return `{"response":{"result":"Error","message":"Invalid quickkey","error":110}}`
		}

		return successEnvelope(fmt.Sprintf(`"file_info":{"quickkey":"%s","filename":"f","size":"1"}`,
			form.Get("quick_key")))
	})

	client := newTestClient(t, srv.URL)

	infos := client.GetFilesInfo(context.Background(), []string{"qk1", "qkBad", "qk2"})

	require.Len(t, infos, 2)
	assert.Equal(t, "qk1", infos[0].QuickKey)
	assert.Equal(t, "qk2", infos[1].QuickKey)
}
