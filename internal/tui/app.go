package tui

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/pfind/internal/catalog"
	"github.com/mgomes/pfind/internal/search"
	"github.com/mgomes/pfind/internal/view"
)

const healthTimeout = 3 * time.Second

const (
	focusCompany = iota
	focusDesignation
)

// Searcher is the part of search.Client the form needs.
type Searcher interface {
	Submit(ctx context.Context, q search.Query) search.Outcome
	Health(ctx context.Context) error
}

// FormModel is the search form: two inputs, an example picker, a submit
// control and the result and error panels. At most one panel is shown, and
// both are hidden while a search is running.
type FormModel struct {
	ctx         context.Context
	searcher    Searcher
	company     textinput.Model
	designation textinput.Model
	focus       int
	spinner     spinner.Model
	picker      list.Model
	picking     bool

	loading bool
	seq     int
	result  *view.Result
	error   string

	healthWarning string
	notice        string

	width   int
	height  int
	openURL func(string) error
}

func NewFormModel(ctx context.Context, searcher Searcher, entries []catalog.Entry) FormModel {
	company := textinput.New()
	company.Placeholder = "Company name"
	company.Focus()
	company.Width = 50
	company.CharLimit = 200

	designation := textinput.New()
	designation.Placeholder = "Job title, e.g. Chief Executive Officer"
	designation.Width = 50
	designation.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	picker := list.New(catalogItems(entries), list.NewDefaultDelegate(), 72, 20)
	picker.Title = "Examples"
	picker.SetShowStatusBar(false)
	picker.DisableQuitKeybindings()

	return FormModel{
		ctx:         ctx,
		searcher:    searcher,
		company:     company,
		designation: designation,
		focus:       focusCompany,
		spinner:     sp,
		picker:      picker,
		openURL:     openInBrowser,
	}
}

func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkHealth())
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.picking {
			return m.updatePicker(msg)
		}

		switch msg.String() {
		case "esc":
			return m, tea.Quit

		case "tab", "down", "shift+tab", "up":
			m.toggleFocus()
			return m, nil

		case "ctrl+e":
			if len(m.picker.Items()) > 0 {
				m.picking = true
			}
			return m, nil

		case "ctrl+o":
			if m.result != nil && m.result.SourceURL != "" && m.openURL != nil {
				if err := m.openURL(m.result.SourceURL); err != nil {
					m.notice = "Could not open browser: " + err.Error()
				}
			}
			return m, nil

		case "enter":
			return m.submit()
		}

		return m.updateFocused(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.applyOutcome(msg.outcome)
		return m, nil

	case CatalogMsg:
		m.notice = ""
		return m, m.picker.SetItems(catalogItems(msg.Entries))

	case CatalogErrorMsg:
		m.notice = "Catalog reload failed: " + msg.Err.Error()
		return m, nil

	case healthMsg:
		m.healthWarning = ""
		if msg.err != nil {
			m.healthWarning = "Search backend health check failed: " + msg.err.Error()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(msg.Width, msg.Height-2)
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// submit validates the inputs and starts a search. The submit control stays
// disabled until the running search completes.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	q := search.Query{
		Company:     m.company.Value(),
		Designation: m.designation.Value(),
	}

	m.result = nil
	m.error = ""

	if err := q.Validate(); err != nil {
		m.error = search.ValidationMessage
		return m, nil
	}

	m.loading = true
	m.seq++

	seq, ctx, searcher := m.seq, m.ctx, m.searcher
	run := func() tea.Msg {
		return runSearch(ctx, searcher, q, seq)
	}

	return m, tea.Batch(run, m.spinner.Tick)
}

// runSearch always produces a completion message, so the form can never be
// left in the loading state.
func runSearch(ctx context.Context, searcher Searcher, q search.Query, seq int) (msg tea.Msg) {
	defer func() {
		if r := recover(); r != nil {
			msg = searchDoneMsg{seq: seq, outcome: search.Outcome{
				Kind:    search.KindTransportError,
				Message: search.ConnectionMessage,
				Cause:   fmt.Errorf("search panicked: %v", r),
			}}
		}
	}()

	return searchDoneMsg{seq: seq, outcome: searcher.Submit(ctx, q)}
}

func (m *FormModel) applyOutcome(outcome search.Outcome) {
	if r, ok := view.FromOutcome(outcome); ok {
		m.result = &r
		m.error = ""
		return
	}

	m.result = nil
	m.error = view.Sanitize(outcome.Message)
	if m.error == "" {
		m.error = search.NoResultsMessage
	}
}

func (m FormModel) checkHealth() tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		return healthMsg{err: searcher.Health(ctx)}
	}
}

func (m FormModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.picker.FilterState() == list.Unfiltered {
			m.picking = false
			return m, nil
		}

	case "enter":
		if m.picker.FilterState() != list.Filtering {
			if item, ok := m.picker.SelectedItem().(catalogItem); ok {
				m.fill(item.entry)
			}
			m.picking = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *FormModel) fill(e catalog.Entry) {
	m.company.SetValue(e.Company)
	m.designation.SetValue(e.Designation)
}

func (m *FormModel) toggleFocus() {
	if m.focus == focusCompany {
		m.focus = focusDesignation
		m.company.Blur()
		m.designation.Focus()
		return
	}

	m.focus = focusCompany
	m.designation.Blur()
	m.company.Focus()
}

func (m FormModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusCompany {
		m.company, cmd = m.company.Update(msg)
	} else {
		m.designation, cmd = m.designation.Update(msg)
	}
	return m, cmd
}

func (m FormModel) View() string {
	if m.picking {
		return m.picker.View() + "\n" + helpStyle.Render("enter choose  / filter  esc back")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("pfind") + " ")
	b.WriteString(dimStyle.Render("who holds this role?") + "\n\n")

	for _, w := range []string{m.healthWarning, m.notice} {
		if w != "" {
			b.WriteString(warningStyle.Render(truncate(w, 100)) + "\n")
		}
	}

	b.WriteString(fieldLabel("Company:", m.focus == focusCompany) + "\n")
	b.WriteString(inputStyle.Render(m.company.View()) + "\n")
	b.WriteString(fieldLabel("Designation:", m.focus == focusDesignation) + "\n")
	b.WriteString(inputStyle.Render(m.designation.View()) + "\n\n")

	if m.loading {
		b.WriteString(disabledButtonStyle.Render(m.spinner.View()+" Searching...") + "\n")
	} else {
		b.WriteString(buttonStyle.Render("Search") + "\n")
	}

	switch {
	case m.result != nil:
		b.WriteString("\n" + m.result.Terminal(m.width) + "\n")
	case m.error != "":
		b.WriteString("\n" + errorCardStyle.Render(m.error) + "\n")
	}

	help := "tab switch field  enter search  ctrl+e examples  esc quit"
	if m.result != nil {
		help = "tab switch field  enter search  ctrl+e examples  ctrl+o open source  esc quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))

	return b.String()
}

func fieldLabel(label string, active bool) string {
	if active {
		return activeStyle.Render("> " + label)
	}
	return "  " + label
}

type catalogItem struct {
	entry catalog.Entry
}

func (i catalogItem) Title() string       { return i.entry.Company }
func (i catalogItem) Description() string { return i.entry.Designation }
func (i catalogItem) FilterValue() string { return i.entry.Label() }

func catalogItems(entries []catalog.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = catalogItem{entry: e}
	}
	return items
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(view.Sanitize(s))
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func openInBrowser(rawURL string) error {
	cmd, err := browserCommand(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// browserCommand builds the command that opens rawURL on goos. Only http and
// https URLs are accepted, and the URL is never handed to a shell.
func browserCommand(goos, rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	switch goos {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "linux":
		return exec.Command("xdg-open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	default:
		return nil, fmt.Errorf("unsupported platform %s", goos)
	}
}
