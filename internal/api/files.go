package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Privacy values accepted by the update endpoints.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// GetFileInfo fetches a file's metadata by quickkey.
func (c *Client) GetFileInfo(ctx context.Context, quickKey string) (*FileInfo, error) {
	payload, err := c.Call(ctx, "file/get_info.php", []Param{
		{Key: "quick_key", Value: quickKey},
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		FileInfo fileItem `json:"file_info"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding file info: %w", err)}
	}

	info := resp.FileInfo.toFileInfo(c.logger)

	return &info, nil
}

// RenameFile changes a file's name.
func (c *Client) RenameFile(ctx context.Context, quickKey, newName string) error {
	_, err := c.Call(ctx, "file/update.php", []Param{
		{Key: "quick_key", Value: quickKey},
		{Key: "filename", Value: newName},
	})

	return err
}

// SetFilePrivacy sets a file public or private.
func (c *Client) SetFilePrivacy(ctx context.Context, quickKey, privacy string) error {
	if privacy != PrivacyPublic && privacy != PrivacyPrivate {
		return fmt.Errorf("api: invalid privacy %q", privacy)
	}

	_, err := c.Call(ctx, "file/update.php", []Param{
		{Key: "quick_key", Value: quickKey},
		{Key: "privacy", Value: privacy},
	})

	return err
}

// MoveFile moves a file into a folder; empty folderKey means the root.
func (c *Client) MoveFile(ctx context.Context, quickKey, folderKey string) error {
	_, err := c.Call(ctx, "file/move.php", []Param{
		{Key: "quick_key", Value: quickKey},
		{Key: "folder_key", Value: folderKey},
	})

	return err
}

// CopyFile copies a file into a folder and returns the new quickkey.
func (c *Client) CopyFile(ctx context.Context, quickKey, folderKey string) (string, error) {
	payload, err := c.Call(ctx, "file/copy.php", []Param{
		{Key: "quick_key", Value: quickKey},
		{Key: "folder_key", Value: folderKey},
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		NewQuickKeys []string `json:"new_quickkeys"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decoding copy response: %w", err)}
	}

	if len(resp.NewQuickKeys) == 0 {
		return "", &TransportError{Err: fmt.Errorf("copy response carried no new quickkey")}
	}

	return resp.NewQuickKeys[0], nil
}

// DeleteFile moves a file to the trash.
func (c *Client) DeleteFile(ctx context.Context, quickKey string) error {
	_, err := c.Call(ctx, "file/delete.php", []Param{
		{Key: "quick_key", Value: quickKey},
	})

	return err
}

// PurgeFile permanently deletes a file, bypassing the trash.
func (c *Client) PurgeFile(ctx context.Context, quickKey string) error {
	_, err := c.Call(ctx, "file/purge.php", []Param{
		{Key: "quick_key", Value: quickKey},
	})

	return err
}

// RestoreFile brings a trashed file back.
func (c *Client) RestoreFile(ctx context.Context, quickKey string) error {
	_, err := c.Call(ctx, "file/restore.php", []Param{
		{Key: "quick_key", Value: quickKey},
	})

	return err
}

// GetFilesInfo fetches metadata for several quickkeys, best effort:
// entries that fail to resolve are logged and skipped rather than
// failing the batch. This suppression is local to this convenience
// wrapper — nothing below it retries or swallows anything.
func (c *Client) GetFilesInfo(ctx context.Context, quickKeys []string) []FileInfo {
	infos := make([]FileInfo, 0, len(quickKeys))

	for _, key := range quickKeys {
		info, err := c.GetFileInfo(ctx, key)
		if err != nil {
			c.logger.Warn("skipping unresolvable file",
				slog.String("quickkey", key),
				slog.String("error", err.Error()),
			)

			continue
		}

		infos = append(infos, *info)
	}

	return infos
}
