package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles_FollowsChunks(t *testing.T) {
	srv := newFormServer(t, func(_ string, form url.Values) string {
		switch form.Get("chunk") {
		case "1":
			return successEnvelope(`"folder_content":{
				"files":[{"quickkey":"qk1","filename":"a.txt","size":"10"},
				         {"quickkey":"qk2","filename":"b.txt","size":"20"}],
				"more_chunks":"yes"}`)
		case "2":
			return successEnvelope(`"folder_content":{
				"files":[{"quickkey":"qk3","filename":"c.txt","size":"30"}],
				"more_chunks":"no"}`)
		default:
			return successEnvelope(`"folder_content":{"files":[]}`)
		}
	})

	client := newTestClient(t, srv.URL)

	files, err := client.ListFiles(context.Background(), "fold1")
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, "qk1", files[0].QuickKey)
	assert.Equal(t, "qk3", files[2].QuickKey)
	assert.Equal(t, int64(30), files[2].Size)

	// Two requests, chunk numbers ascending, fixed chunk size.
	require.Len(t, srv.forms, 2)
	assert.Equal(t, "files", srv.forms[0].Get("content_type"))
	assert.Equal(t, "100", srv.forms[0].Get("chunk_size"))
	assert.Equal(t, "fold1", srv.forms[0].Get("folder_key"))
	assert.Equal(t, "2", srv.forms[1].Get("chunk"))
}

func TestListFiles_EmptyFolder(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"folder_content":{"files":[],"more_chunks":"no"}`)
	})

	client := newTestClient(t, srv.URL)

	files, err := client.ListFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)

	// Root listing omits folder_key entirely.
	_, present := srv.lastForm()["folder_key"]
	assert.False(t, present)
}

func TestListFolders(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"folder_content":{
			"folders":[{"folderkey":"fk1","name":"docs","file_count":"12","folder_count":"2","privacy":"private"}],
			"more_chunks":"no"}`)
	})

	client := newTestClient(t, srv.URL)

	folders, err := client.ListFolders(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, folders, 1)
	assert.Equal(t, "fk1", folders[0].FolderKey)
	assert.Equal(t, "docs", folders[0].Name)
	assert.Equal(t, 12, folders[0].FileCount)
	assert.Equal(t, 2, folders[0].FolderCount)

	assert.Equal(t, "folders", srv.lastForm().Get("content_type"))
}

func TestCreateFolder(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"folder_key":"fkNew"`)
	})

	client := newTestClient(t, srv.URL)

	key, err := client.CreateFolder(context.Background(), "fkParent", "reports")
	require.NoError(t, err)
	assert.Equal(t, "fkNew", key)

	form := srv.lastForm()
	assert.Equal(t, "reports", form.Get("foldername"))
	assert.Equal(t, "fkParent", form.Get("parent_key"))
}

func TestCreateFolder_AtRootOmitsParent(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"folder_key":"fkNew"`)
	})

	client := newTestClient(t, srv.URL)

	_, err := client.CreateFolder(context.Background(), "", "reports")
	require.NoError(t, err)

	_, present := srv.lastForm()["parent_key"]
	assert.False(t, present)
}

func TestCreateFolder_MissingKey(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)

	_, err := client.CreateFolder(context.Background(), "", "reports")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no folder key")
}

func TestMoveFolder(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)

	require.NoError(t, client.MoveFolder(context.Background(), "fkSrc", "fkDst"))

	form := srv.lastForm()
	assert.Equal(t, "fkSrc", form.Get("folder_key_src"))
	assert.Equal(t, "fkDst", form.Get("folder_key_dst"))
}

func TestRenameDeletePurgeFolder(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope("")
	})

	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, client.RenameFolder(ctx, "fk1", "new-name"))
	require.NoError(t, client.DeleteFolder(ctx, "fk1"))
	require.NoError(t, client.PurgeFolder(ctx, "fk1"))

	assert.Equal(t, []string{
		"/api/1.5/folder/update.php",
		"/api/1.5/folder/delete.php",
		"/api/1.5/folder/purge.php",
	}, srv.paths)
	assert.Equal(t, "new-name", srv.forms[0].Get("foldername"))
}

func TestListFiles_PaginationStopsWithoutFlag(t *testing.T) {
	// A chunk with no more_chunks field at all terminates the walk.
	var calls int

	srv := newFormServer(t, func(string, url.Values) string {
		calls++

		items := make([]string, 0, 2)
		for i := 0; i < 2; i++ {
			items = append(items, fmt.Sprintf(`{"quickkey":"qk%d-%d","filename":"f"}`, calls, i))
		}

		return successEnvelope(`"folder_content":{"files":[` + strings.Join(items, ",") + `]}`)
	})

	client := newTestClient(t, srv.URL)

	files, err := client.ListFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, 1, calls)
}
