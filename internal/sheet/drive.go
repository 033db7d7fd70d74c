package sheet

import (
	"fmt"
	"net/url"
	"regexp"
)

type MediaKind int

const (
	Image MediaKind = iota
	Video
)

var (
	reDrivePath = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
	reDriveID   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// driveID extracts the file id from the share link shapes Drive hands out:
// /file/d/<id>/view, open?id=<id> and uc?id=<id>.
func driveID(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host != "drive.google.com" {
		return "", false
	}
	if m := reDrivePath.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}
	if id := u.Query().Get("id"); reDriveID.MatchString(id) {
		return id, true
	}
	return "", false
}

// FormatDriveLink turns a Google Drive share link into something a page can embed.
// A positive width asks Google for a resized image. Anything that is not a Drive link comes back unchanged.
func FormatDriveLink(raw string, kind MediaKind, width int) string {
	id, ok := driveID(raw)
	if !ok {
		return raw
	}
	if kind == Video {
		return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", id)
	}
	if width <= 0 {
		return "https://lh3.googleusercontent.com/d/" + id
	}
	return fmt.Sprintf("https://lh3.googleusercontent.com/d/%s=w%d", id, width)
}
