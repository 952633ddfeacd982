package render

import (
	"bytes"
	"html/template"
	"io"
)

// cardsHTML renders cards for documents. html/template escapes every field
// contextually.
const cardsHTML = `{{range .}}
<article class="todo-card {{.Priority}}-priority">
  <div class="todo-title">{{.Title}}{{if .Completed}} <strong>(Completed)</strong>{{end}}</div>
  {{- if .Description}}
  <div class="todo-description">{{.Description}}</div>
  {{- end}}
  <div class="todo-meta">
    <span class="todo-due">{{.DueLabel}}</span>
    <span class="todo-priority">{{.Priority}}</span>
    {{- if .Category}}
    <span class="todo-category">{{.Category}}</span>
    {{- end}}
  </div>
  {{- if .Tags}}
  <div class="todo-tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
  {{- end}}
</article>
{{- end}}`

var cardsTemplate = template.Must(template.New("cards").Parse(cardsHTML))

// WriteHTML writes the escaped HTML for cards to w.
func WriteHTML(w io.Writer, cards []Card) error {
	return cardsTemplate.Execute(w, cards)
}

// HTML returns the escaped HTML for cards, ready to embed in another
// html/template document.
func HTML(cards []Card) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, cards); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by an escaping template
}
