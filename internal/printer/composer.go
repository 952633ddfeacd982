// Package printer builds a standalone, printable HTML document of the loaded
// todos and hands it to the system viewer.
package printer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/render"
)

// DefaultTitle is the document heading used when none is configured.
const DefaultTitle = "Todos"

// PrintedLayout formats the "Printed:" timestamp.
const PrintedLayout = "Jan 2, 2006 3:04:05 PM"

// printDelayMs is how long the document waits before opening the print
// dialog, giving the viewer time to apply styles.
const printDelayMs = 500

// EnvironmentError reports that the print document could not be shown
// because the environment refused to open it.
type EnvironmentError struct {
	Path string
	Err  error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("unable to open print view %s: %v", e.Path, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// JobRecorder stores print jobs.
type JobRecorder interface {
	CreatePrintJob(ctx context.Context, job model.PrintJob) error
}

// Composer composes and prints todo documents.
type Composer struct {
	title    string
	dir      string
	recorder JobRecorder
	opener   Opener
	now      func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithRecorder records every printed document.
func WithRecorder(r JobRecorder) Option {
	return func(c *Composer) { c.recorder = r }
}

// WithOpener replaces the system opener.
func WithOpener(o Opener) Option {
	return func(c *Composer) { c.opener = o }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New creates a composer writing documents to dir. An empty title selects
// DefaultTitle; an empty dir selects the OS temp directory.
func New(title, dir string, opts ...Option) *Composer {
	if title == "" {
		title = DefaultTitle
	}
	if dir == "" {
		dir = os.TempDir()
	}
	c := &Composer{
		title:  title,
		dir:    dir,
		opener: SystemOpener{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type document struct {
	Title   string
	Summary string
	Printed string
	Cards   template.HTML
	Empty   bool
	DelayMs int
}

var documentTemplate = template.Must(template.New("print").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}} - Print</title>
<style>
  body { background: #fff; color: #111; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; padding: 18px; }
  .print-header { margin-bottom: 18px; display: flex; justify-content: space-between; }
  .print-header h2 { margin: 0 0 6px 0; font-size: 1.2rem; }
  .print-filters { color: #444; margin-bottom: 6px; }
  .print-date { text-align: right; color: #666; font-size: 0.9rem; }
  .todo-card { border: 1px solid #ddd; border-left-width: 4px; border-radius: 6px; margin-bottom: 12px; padding: 12px; }
  .high-priority { border-left-color: #c53030; }
  .medium-priority { border-left-color: #b7791f; }
  .low-priority { border-left-color: #2f855a; }
  .todo-title { font-weight: 600; }
  .todo-description { margin-top: 6px; }
  .todo-meta { color: #444; font-size: 0.95rem; margin-top: 8px; }
  .todo-meta span + span { margin-left: 12px; }
  .todo-tags { margin-top: 8px; }
  .todo-tags .tag { background: #111; color: #fff; border-radius: 4px; padding: 1px 6px; margin-right: 4px; }
  @media print { .todo-card { break-inside: avoid; } }
</style>
</head>
<body>
<div class="print-header">
  <div>
    <h2>{{.Title}}</h2>
    <div class="print-filters">{{.Summary}}</div>
  </div>
  <div class="print-date">Printed: {{.Printed}}</div>
</div>
<main>
{{- if .Empty}}
<p>No todos to print</p>
{{- else}}
{{.Cards}}
{{- end}}
</main>
<script>
window.addEventListener("load", function () {
  setTimeout(function () { window.focus(); window.print(); }, {{.DelayMs}});
});
</script>
</body>
</html>
`))

// Compose renders the print document for the loaded todos under filters.
func (c *Composer) Compose(todos []model.Todo, filters model.FilterSet, now time.Time) ([]byte, error) {
	cards, err := render.HTML(render.Cards(todos))
	if err != nil {
		return nil, fmt.Errorf("rendering cards: %w", err)
	}

	var buf bytes.Buffer
	err = documentTemplate.Execute(&buf, document{
		Title:   c.title,
		Summary: filters.Summary(),
		Printed: now.Local().Format(PrintedLayout),
		Cards:   cards,
		Empty:   len(todos) == 0,
		DelayMs: printDelayMs,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering print document: %w", err)
	}
	return buf.Bytes(), nil
}

// Print composes the document, writes it to the print directory, records
// the job and opens it in the system viewer. A viewer that cannot be
// started yields an *EnvironmentError; the document stays on disk.
func (c *Composer) Print(ctx context.Context, todos []model.Todo, filters model.FilterSet) (model.PrintJob, error) {
	now := c.now()
	doc, err := c.Compose(todos, filters, now)
	if err != nil {
		return model.PrintJob{}, err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return model.PrintJob{}, fmt.Errorf("creating print dir: %w", err)
	}

	job := model.PrintJob{
		ID:        uuid.New().String(),
		Summary:   filters.Summary(),
		TodoCount: len(todos),
		CreatedAt: now,
	}
	job.Path = filepath.Join(c.dir, fmt.Sprintf("todos-%s-%s.html", now.Format("20060102-150405"), job.ID[:8]))

	if err := os.WriteFile(job.Path, doc, 0o600); err != nil {
		return model.PrintJob{}, fmt.Errorf("writing print document: %w", err)
	}

	if c.recorder != nil {
		if err := c.recorder.CreatePrintJob(ctx, job); err != nil {
			log.WithError(err).WithField("path", job.Path).Warn("recording print job")
		}
	}

	if err := c.opener.Open(job.Path); err != nil {
		return job, &EnvironmentError{Path: job.Path, Err: err}
	}

	log.WithFields(log.Fields{"path": job.Path, "todos": job.TodoCount}).Info("print document opened")
	return job, nil
}
