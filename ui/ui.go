// Package ui embeds the browser preview page: the video element driven over
// the session websocket, the scene library and the timeline ruler.
package ui

import (
	"embed"
	"io/fs"

	"github.com/vearutop/statigz"
)

//go:embed preview
var previewBox embed.FS

// UIBox is the preview page with the "preview" prefix stripped.
var UIBox fs.FS

// UIServer serves UIBox, with precompressed responses where available.
var UIServer *statigz.Server

func init() {
	var err error
	UIBox, err = fs.Sub(previewBox, "preview")
	if err != nil {
		panic(err)
	}
	UIServer = statigz.FileServer(UIBox.(fs.ReadDirFS))
}
