package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// minKeywordLen drops short tokens ("a", "of", file extensions' dots)
// that match everything and rank nothing.
const minKeywordLen = 3

// SearchResult is one hit from folder/search.php. Type is "file" or
// "folder"; Key is a quickkey or folderkey accordingly.
type SearchResult struct {
	Type string
	Key  string
	Name string
}

// SearchKeywords extracts search terms from a free-text name: split on
// anything non-alphanumeric, lowercase, drop short tokens, dedupe while
// preserving first-seen order. "My Vacation (2019).tar.gz" becomes
// ["vacation", "2019", "tar"].
func SearchKeywords(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	keywords := make([]string, 0, len(fields))

	for _, f := range fields {
		token := strings.ToLower(f)
		if len(token) < minKeywordLen && !isNumeric(token) {
			continue
		}

		if seen[token] {
			continue
		}

		seen[token] = true
		keywords = append(keywords, token)
	}

	return keywords
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// Search runs a text search under a folder (empty folderKey for the
// whole account).
func (c *Client) Search(ctx context.Context, folderKey, searchText string) ([]SearchResult, error) {
	params := []Param{
		{Key: "search_text", Value: searchText},
	}
	if folderKey != "" {
		params = append(params, Param{Key: "folder_key", Value: folderKey})
	}

	payload, err := c.Call(ctx, "folder/search.php", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			Type      string `json:"type"`
			QuickKey  string `json:"quickkey"`
			FolderKey string `json:"folderkey"`
			Filename  string `json:"filename"`
			Name      string `json:"name"`
		} `json:"results"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding search response: %w", err)}
	}

	results := make([]SearchResult, 0, len(resp.Results))

	for _, r := range resp.Results {
		// Key and name fields differ between file and folder hits;
		// fallback order is part of the wire contract: quickkey then
		// folderkey, filename then name.
		key := r.QuickKey
		if key == "" {
			key = r.FolderKey
		}

		name := r.Filename
		if name == "" {
			name = r.Name
		}

		results = append(results, SearchResult{Type: r.Type, Key: key, Name: name})
	}

	return results, nil
}

// SearchByName searches for entries fuzzily matching a filename, using
// the keyword heuristic to build the query.
func (c *Client) SearchByName(ctx context.Context, folderKey, name string) ([]SearchResult, error) {
	keywords := SearchKeywords(name)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("api: no usable search keywords in %q", name)
	}

	return c.Search(ctx, folderKey, strings.Join(keywords, " "))
}
