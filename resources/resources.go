// Package resources embeds the sign-up page views and browser assets.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed views assets
var files embed.FS

// Views returns the html/template views rooted at views/.
func Views() fs.FS { return sub("views") }

// Assets returns the static browser assets rooted at assets/.
func Assets() fs.FS { return sub("assets") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return f
}
