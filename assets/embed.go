// Package assets embeds the word bank and the browser pages.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed wordbank.json web
var FS embed.FS

// WordBank returns the embedded word bank JSON.
func WordBank() ([]byte, error) {
	return FS.ReadFile("wordbank.json")
}

// Web returns the page/static file tree rooted at web/.
func Web() fs.FS {
	sub, err := fs.Sub(FS, "web")
	if err != nil {
		panic("assets: web directory missing from embed: " + err.Error())
	}
	return sub
}
