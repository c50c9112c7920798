package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

const pageTemplate = `{{define "nodes"}}<ul>{{range .Nodes}}<li>{{if .GroupHeader}}<span class="group">{{.Title}}</span>{{else}}<a href="{{$.Page.Link .Href}}"{{if eq .Href $.Page.Path}} aria-current="page"{{end}}>{{.Title}}</a>{{end}}{{if .Children}}{{template "nodes" (sub $.Page .Children)}}{{end}}</li>{{end}}</ul>{{end}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{if .Title}}{{.Title}} - {{end}}Documentation {{.Version}}</title></head>
<body>
<nav class="versions">{{range .Versions}}<a href="{{$.VersionLink .}}"{{if eq . $.Version}} aria-current="true"{{end}}>{{.}}</a> {{end}}</nav>
<nav class="sidebar">{{template "nodes" (sub . .Tree)}}</nav>
<main>{{if .Found}}<h1>{{.Title}}</h1>{{else}}<h1>Page not found</h1>{{end}}</main>
<nav class="pager">{{with .Prev}}<a rel="prev" href="{{$.Link .Href}}">{{.Title}}</a>{{end}} {{with .Next}}<a rel="next" href="{{$.Link .Href}}">{{.Title}}</a>{{end}}</nav>
</body>
</html>
`

type nodeList struct {
	Page  PageContext
	Nodes []routes.Node
}

// HTMLRenderer renders a minimal navigation page: version switcher, sidebar
// tree and prev/next links. Unknown pages get status 404.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the built-in page template.
func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"sub": func(pc PageContext, nodes []routes.Node) nodeList { return nodeList{Page: pc, Nodes: nodes} },
	}
	return &HTMLRenderer{tmpl: template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))}
}

// RenderPage implements PageRenderer. Only template errors are returned;
// they happen before anything is written.
func (h *HTMLRenderer) RenderPage(w http.ResponseWriter, _ *http.Request, pc PageContext) error {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, pc); err != nil {
		return err
	}
	status := http.StatusOK
	if !pc.Found {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing page body", logfields.Path(pc.Path), logfields.Error(err))
	}
	return nil
}
