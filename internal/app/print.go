package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/ui/history"
)

// printedMsg is sent after a print document was composed and opened.
type printedMsg struct {
	job model.PrintJob
	err error
}

// historyLoadedMsg carries the recent print jobs from the ledger.
type historyLoadedMsg struct {
	jobs []model.PrintJob
	err  error
}

// printHistory loads the recent print jobs for the history view.
func (m *Model) printHistory() tea.Cmd {
	if m.ledger == nil {
		return m.showNotice("No print history available", true)
	}
	l := m.ledger
	return func() tea.Msg {
		jobs, err := l.GetPrintJobs(context.Background(), history.Limit)
		if err != nil {
			log.WithError(err).Error("loading print history")
		}
		return historyLoadedMsg{jobs: jobs, err: err}
	}
}

// checkDueMsg carries the server's answer to a due-date check.
type checkDueMsg struct {
	message string
	err     error
}

// print composes the loaded todos into a print document and opens it.
func (m Model) print() tea.Cmd {
	p := m.printer
	todos := m.store.Todos()
	filters := m.store.Filters()
	return func() tea.Msg {
		job, err := p.Print(context.Background(), todos, filters)
		if err != nil {
			log.WithError(err).Error("printing todos")
		}
		return printedMsg{job: job, err: err}
	}
}

// checkDue asks the backend to queue reminders for due todos.
func (m Model) checkDue() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		res, err := b.CheckDue(context.Background())
		if err != nil {
			log.WithError(err).Error("checking due todos")
			return checkDueMsg{err: err}
		}
		return checkDueMsg{message: res.Message}
	}
}
