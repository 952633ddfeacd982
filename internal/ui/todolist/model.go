package todolist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
)

// SearchMsg is sent on every keystroke in the search box.
type SearchMsg struct {
	Query string
}

// ActionMsg is sent when the user triggers a card action.
type ActionMsg struct {
	Action render.Action
}

// OpenMsg is sent when the user asks for the details of a todo.
type OpenMsg struct {
	TodoID int64
}

// Model is the todo list view component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new todo list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{keys: k}, width, height-2)
	l.Title = "Todos"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("todo", "todos")

	si := textinput.New()
	si.Placeholder = "search todos..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetCards replaces the displayed cards, keeping the cursor in range.
func (m *Model) SetCards(cards []render.Card) tea.Cmd {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = CardItem{Card: c}
	}
	return m.list.SetItems(items)
}

// SelectedCard returns the card under the cursor.
func (m Model) SelectedCard() (render.Card, bool) {
	item, ok := m.list.SelectedItem().(CardItem)
	if !ok {
		return render.Card{}, false
	}
	return item.Card, true
}

// Searching reports whether the search box has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Query returns the current search text.
func (m Model) Query() string {
	return m.searchInput.Value()
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search box has focus.
// Every edit is reported so the caller can reload immediately.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		if m.searchInput.Value() == "" {
			return m, nil
		}
		m.searchInput.Reset()
		return m, searchCmd("")
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		return m, tea.Batch(cmd, searchCmd(after))
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Open):
		card, ok := m.SelectedCard()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return OpenMsg{TodoID: card.ID} }

	case key.Matches(msg, m.keys.Toggle):
		return m, m.actionCmd(render.ActionToggle)

	case key.Matches(msg, m.keys.Edit):
		return m, m.actionCmd(render.ActionEdit)

	case key.Matches(msg, m.keys.Delete):
		return m, m.actionCmd(render.ActionDelete)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// actionCmd emits the selected card's action of the given kind.
func (m Model) actionCmd(kind render.ActionKind) tea.Cmd {
	card, ok := m.SelectedCard()
	if !ok {
		return nil
	}
	for _, a := range card.Actions {
		if a.Kind == kind {
			action := a
			return func() tea.Msg { return ActionMsg{Action: action} }
		}
	}
	return nil
}

func searchCmd(q string) tea.Cmd {
	return func() tea.Msg { return SearchMsg{Query: q} }
}

// View renders the todo list view.
func (m Model) View() string {
	var body string
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.list.View()
	}

	if m.searchMode || m.searchInput.Value() != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}
	return body
}

// renderEmptyState shows the placeholder for an empty snapshot.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(render.Empty.Title + "\n\n" + render.Empty.Hint)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
