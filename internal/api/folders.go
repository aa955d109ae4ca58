package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// contentChunkSize is the per-chunk entry count for folder listings.
// 100 is the server-side maximum.
const contentChunkSize = 100

// ListFiles returns every file directly inside a folder, following the
// chunked pagination until the server reports no more chunks. Empty
// folderKey means the account root.
func (c *Client) ListFiles(ctx context.Context, folderKey string) ([]FileInfo, error) {
	var files []FileInfo

	for chunk := 1; ; chunk++ {
		payload, err := c.folderContent(ctx, folderKey, "files", chunk)
		if err != nil {
			return nil, err
		}

		var resp struct {
			FolderContent struct {
				Files      []fileItem `json:"files"`
				MoreChunks string     `json:"more_chunks"`
			} `json:"folder_content"`
		}
		if err := json.Unmarshal(payload, &resp); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("decoding folder content: %w", err)}
		}

		for i := range resp.FolderContent.Files {
			files = append(files, resp.FolderContent.Files[i].toFileInfo(c.logger))
		}

		if resp.FolderContent.MoreChunks != "yes" {
			return files, nil
		}
	}
}

// ListFolders returns every subfolder directly inside a folder.
func (c *Client) ListFolders(ctx context.Context, folderKey string) ([]FolderInfo, error) {
	var folders []FolderInfo

	for chunk := 1; ; chunk++ {
		payload, err := c.folderContent(ctx, folderKey, "folders", chunk)
		if err != nil {
			return nil, err
		}

		var resp struct {
			FolderContent struct {
				Folders    []folderItem `json:"folders"`
				MoreChunks string       `json:"more_chunks"`
			} `json:"folder_content"`
		}
		if err := json.Unmarshal(payload, &resp); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("decoding folder content: %w", err)}
		}

		for i := range resp.FolderContent.Folders {
			folders = append(folders, resp.FolderContent.Folders[i].toFolderInfo(c.logger))
		}

		if resp.FolderContent.MoreChunks != "yes" {
			return folders, nil
		}
	}
}

func (c *Client) folderContent(ctx context.Context, folderKey, contentType string, chunk int) (json.RawMessage, error) {
	params := []Param{
		{Key: "content_type", Value: contentType},
		{Key: "chunk", Value: strconv.Itoa(chunk)},
		{Key: "chunk_size", Value: strconv.Itoa(contentChunkSize)},
	}
	if folderKey != "" {
		params = append(params, Param{Key: "folder_key", Value: folderKey})
	}

	return c.Call(ctx, "folder/get_content.php", params)
}

// CreateFolder creates a folder under parentKey (empty for root) and
// returns the new folder's key.
func (c *Client) CreateFolder(ctx context.Context, parentKey, name string) (string, error) {
	params := []Param{
		{Key: "foldername", Value: name},
	}
	if parentKey != "" {
		params = append(params, Param{Key: "parent_key", Value: parentKey})
	}

	payload, err := c.Call(ctx, "folder/create.php", params)
	if err != nil {
		return "", err
	}

	var resp struct {
		FolderKey string `json:"folder_key"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decoding create folder response: %w", err)}
	}

	if resp.FolderKey == "" {
		return "", &TransportError{Err: fmt.Errorf("create folder response carried no folder key")}
	}

	return resp.FolderKey, nil
}

// RenameFolder changes a folder's name.
func (c *Client) RenameFolder(ctx context.Context, folderKey, newName string) error {
	_, err := c.Call(ctx, "folder/update.php", []Param{
		{Key: "folder_key", Value: folderKey},
		{Key: "foldername", Value: newName},
	})

	return err
}

// MoveFolder moves a folder under a new parent; empty parentKey means
// the root.
func (c *Client) MoveFolder(ctx context.Context, folderKey, parentKey string) error {
	_, err := c.Call(ctx, "folder/move.php", []Param{
		{Key: "folder_key_src", Value: folderKey},
		{Key: "folder_key_dst", Value: parentKey},
	})

	return err
}

// DeleteFolder moves a folder and its contents to the trash.
func (c *Client) DeleteFolder(ctx context.Context, folderKey string) error {
	_, err := c.Call(ctx, "folder/delete.php", []Param{
		{Key: "folder_key", Value: folderKey},
	})

	return err
}

// PurgeFolder permanently deletes a folder and its contents.
func (c *Client) PurgeFolder(ctx context.Context, folderKey string) error {
	_, err := c.Call(ctx, "folder/purge.php", []Param{
		{Key: "folder_key", Value: folderKey},
	})

	return err
}
