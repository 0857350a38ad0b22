package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/vdom"
	"golang.org/x/net/html"
)

// HTML renders node to a string.
func HTML(node *vdom.Node) string {
	var b strings.Builder
	_ = WriteHTML(&b, node)
	return b.String()
}

// WriteHTML renders node to w.
func WriteHTML(w io.Writer, node *vdom.Node) error {
	return New(dom.NewDocument()).Materialize(node).Render(w)
}

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is rendered inside the mount point.
	Body *vdom.Node

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// MountID is the id of the mount point element.
	// Defaults to "app" if not specified.
	MountID string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains paths to scripts loaded at the end of the body.
	Scripts []string
}

// WritePage renders a complete HTML document with page.Body inside the
// mount point.
func WritePage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	mountID := page.MountID
	if mountID == "" {
		mountID = "app"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=\"%s\">\n<head>\n", html.EscapeString(lang))
	b.WriteString("<meta charset=\"utf-8\">\n")
	if page.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(page.Title))
	}
	for _, href := range page.StyleSheets {
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href))
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<div id=\"%s\">", html.EscapeString(mountID))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if page.Body != nil {
		if err := WriteHTML(w, page.Body); err != nil {
			return err
		}
	}

	b.Reset()
	b.WriteString("</div>\n")
	for _, src := range page.Scripts {
		fmt.Fprintf(&b, "<script src=\"%s\" defer></script>\n", html.EscapeString(src))
	}
	b.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
