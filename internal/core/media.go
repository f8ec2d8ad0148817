package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

var mediaKinds = map[string]MediaKind{
	".png":  MediaImage,
	".jpg":  MediaImage,
	".jpeg": MediaImage,
	".gif":  MediaImage,
	".webp": MediaImage,
	".mp4":  MediaVideo,
	".webm": MediaVideo,
	".mov":  MediaVideo,
}

// MediaRefForFile builds a local MediaRef for a selected file. The URL is a
// client-side placeholder; the server-returned URL replaces it on confirm.
func MediaRefForFile(path string) (*MediaRef, error) {
	kind, ok := mediaKinds[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported media file %q", filepath.Base(path))}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &MediaRef{URL: "file://" + abs, Kind: kind}, nil
}
