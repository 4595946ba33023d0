package generator

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/sagarc03/eir"
)

// Directory renders an HTML index of a directory's entries, sorted by name.
type Directory struct{}

func (Directory) Generate(ctx context.Context, path eir.RequestPath) (body eir.Body, err error) {
	if err := ctx.Err(); err != nil {
		return eir.Body{}, err
	}

	dir, err := os.Open(path.Absolute())
	if err != nil {
		return eir.Body{}, fmt.Errorf("open directory %s: %w", path.Relative(), err)
	}
	defer func() {
		if closeErr := dir.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close directory %s: %w", path.Relative(), closeErr)
		}
	}()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return eir.Body{}, fmt.Errorf("read directory %s: %w", path.Relative(), err)
	}
	slices.Sort(names)

	title := html.EscapeString(path.Relative())

	var b strings.Builder
	b.WriteString(`<html><head><meta charset="UTF-8"><title>Index of ` + title + `</title></head><body>`)
	b.WriteString(`<h1>Index of ` + title + `</h1>`)

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}

		entry := path.Join(name)

		href := "/" + name
		if path.Relative() != "/" {
			href = path.Relative() + "/" + name
		}

		b.WriteString(entryTag(entry))
		b.WriteString(`<a href="` + escapeHref(href) + `">` + html.EscapeString(name) + `</a><br/>`)
	}

	b.WriteString(`</body></html>`)

	return eir.Body{Data: []byte(b.String()), Text: true}, nil
}

// entryTag classifies an entry; entries that cannot be inspected are "other".
func entryTag(entry eir.RequestPath) string {
	if ok, err := entry.IsDirectory(); err == nil && ok {
		return "[dir]    "
	}
	if ok, err := entry.IsRegular(); err == nil && ok {
		return "[file]   "
	}
	return "[other]  "
}

// escapeHref percent-encodes each segment so the link decodes back to the
// same path, "+" included.
func escapeHref(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = strings.ReplaceAll(url.PathEscape(s), "+", "%2B")
	}
	return strings.Join(segs, "/")
}
