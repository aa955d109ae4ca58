package api

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "typical archive name",
			in:   "My Vacation (2019).tar.gz",
			want: []string{"vacation", "2019", "tar"},
		},
		{
			name: "short words dropped",
			in:   "a of to go",
			want: []string{},
		},
		{
			name: "short numerics kept",
			in:   "IMG 42.jpg",
			want: []string{"img", "42", "jpg"},
		},
		{
			name: "duplicates collapse in first-seen order",
			in:   "backup backup-2023 backup.zip",
			want: []string{"backup", "2023", "zip"},
		},
		{
			name: "case folded",
			in:   "README.TXT",
			want: []string{"readme", "txt"},
		},
		{
			name: "punctuation only",
			in:   "...---...",
			want: []string{},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchKeywords(tt.in))
		})
	}
}

func TestSearch_DecodesMixedHits(t *testing.T) {
	// File hits carry quickkey/filename, folder hits carry folderkey/name.
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"results":[
			{"type":"file","quickkey":"qk1","filename":"report.pdf"},
			{"type":"folder","folderkey":"fk1","name":"reports"}]`)
	})

	client := newTestClient(t, srv.URL)

	results, err := client.Search(context.Background(), "", "report")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, SearchResult{Type: "file", Key: "qk1", Name: "report.pdf"}, results[0])
	assert.Equal(t, SearchResult{Type: "folder", Key: "fk1", Name: "reports"}, results[1])

	assert.Equal(t, "report", srv.lastForm().Get("search_text"))
	assert.Equal(t, "/api/1.5/folder/search.php", srv.paths[0])
}

func TestSearch_ScopedToFolder(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"results":[]`)
	})

	client := newTestClient(t, srv.URL)

	results, err := client.Search(context.Background(), "fk9", "report")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "fk9", srv.lastForm().Get("folder_key"))
}

func TestSearchByName_BuildsKeywordQuery(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"results":[]`)
	})

	client := newTestClient(t, srv.URL)

	_, err := client.SearchByName(context.Background(), "", "My Vacation (2019).tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "vacation 2019 tar", srv.lastForm().Get("search_text"))
}

func TestSearchByName_NoUsableKeywords(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.SearchByName(context.Background(), "", "a.b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable search keywords")
}
