package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okonma/mediafire-go/internal/api"
)

// printListing renders ls output: folders first, then files.
func printListing(folders []api.FolderInfo, files []api.FileInfo, long bool) {
	for _, f := range folders {
		if long {
			fmt.Printf("%-15s  %9s  %-7s  %s  %s/\n",
				f.FolderKey, "-", f.Privacy, formatTime(f.Created), f.Name)
		} else {
			fmt.Printf("%s/\n", f.Name)
		}
	}

	for _, f := range files {
		if long {
			fmt.Printf("%-15s  %9s  %-7s  %s  %s\n",
				f.QuickKey, humanize.Bytes(uint64(f.Size)), f.Privacy, formatTime(f.Created), f.Name)
		} else {
			fmt.Println(f.Name)
		}
	}
}

// printFileInfo renders stat output, one field per line.
func printFileInfo(info *api.FileInfo) {
	fmt.Printf("quickkey:  %s\n", info.QuickKey)
	fmt.Printf("name:      %s\n", info.Name)
	fmt.Printf("size:      %s (%d bytes)\n", humanize.Bytes(uint64(info.Size)), info.Size)
	fmt.Printf("hash:      %s\n", info.Hash)
	fmt.Printf("mimetype:  %s\n", info.MimeType)
	fmt.Printf("privacy:   %s\n", info.Privacy)

	if !info.Created.IsZero() {
		fmt.Printf("created:   %s\n", info.Created.Format(time.RFC3339))
	}
}

// formatTime returns a compact timestamp for listings.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "            "
	}

	now := time.Now()

	// Same calendar year: show "Jan  2 15:04"
	if t.Year() == now.Year() {
		return t.Format("Jan _2 15:04")
	}

	// Different year: show "Jan  2  2006"
	return t.Format("Jan _2  2006")
}
