package api

import (
	"log/slog"
	"strconv"
	"time"
)

// serverTimeLayout is the timestamp format the API uses for created/
// modified fields.
const serverTimeLayout = "2006-01-02 15:04:05"

// FileInfo is a file's metadata, normalized from the API response —
// callers never see raw wire data.
type FileInfo struct {
	QuickKey string
	Name     string
	Size     int64
	Hash     string // server-side SHA-256, lowercase hex
	MimeType string
	Privacy  string // "public" or "private"
	Created  time.Time
}

// FolderInfo is a folder's metadata, normalized from the API response.
type FolderInfo struct {
	FolderKey   string
	Name        string
	FileCount   int
	FolderCount int
	Privacy     string
	Created     time.Time
}

// Quota is the account's storage allowance.
type Quota struct {
	Used  int64
	Total int64
}

// UserInfo is the account identity block from user/get_info.php.
type UserInfo struct {
	Email       string
	DisplayName string
	Premium     bool
}

// fileItem mirrors the wire shape of a file entry. All numeric fields
// arrive as decimal strings.
type fileItem struct {
	QuickKey string `json:"quickkey"`
	Filename string `json:"filename"`
	Size     string `json:"size"`
	Hash     string `json:"hash"`
	MimeType string `json:"mimetype"`
	Privacy  string `json:"privacy"`
	Created  string `json:"created"`
}

type folderItem struct {
	FolderKey   string `json:"folderkey"`
	Name        string `json:"name"`
	FileCount   string `json:"file_count"`
	FolderCount string `json:"folder_count"`
	Privacy     string `json:"privacy"`
	Created     string `json:"created"`
}

func (f *fileItem) toFileInfo(logger *slog.Logger) FileInfo {
	return FileInfo{
		QuickKey: f.QuickKey,
		Name:     f.Filename,
		Size:     parseWireInt(f.Size, "size", logger),
		Hash:     f.Hash,
		MimeType: f.MimeType,
		Privacy:  f.Privacy,
		Created:  parseWireTime(f.Created, logger),
	}
}

func (f *folderItem) toFolderInfo(logger *slog.Logger) FolderInfo {
	return FolderInfo{
		FolderKey:   f.FolderKey,
		Name:        f.Name,
		FileCount:   int(parseWireInt(f.FileCount, "file_count", logger)),
		FolderCount: int(parseWireInt(f.FolderCount, "folder_count", logger)),
		Privacy:     f.Privacy,
		Created:     parseWireTime(f.Created, logger),
	}
}

// parseWireInt converts a decimal-string field, logging and returning 0
// on garbage rather than failing the whole call.
func parseWireInt(raw, field string, logger *slog.Logger) int64 {
	if raw == "" {
		return 0
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("unparsable numeric field in response",
			slog.String("field", field),
			slog.String("raw", raw),
		)

		return 0
	}

	return n
}

// parseWireTime converts a server timestamp, returning the zero time on
// absence or garbage.
func parseWireTime(raw string, logger *slog.Logger) time.Time {
	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(serverTimeLayout, raw)
	if err != nil {
		logger.Warn("unparsable timestamp in response",
			slog.String("raw", raw),
		)

		return time.Time{}
	}

	return t
}
