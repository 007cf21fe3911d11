package tui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type SetupModel struct {
	endpointInput textinput.Model
	catalogInput  textinput.Model
	focus         int
	error         string
	width         int
	height        int
}

func NewSetupModel(endpoint, catalogPath string) SetupModel {
	endpointInput := textinput.New()
	endpointInput.Placeholder = "http://localhost:5000/search"
	endpointInput.SetValue(endpoint)
	endpointInput.Focus()
	endpointInput.Width = 60

	catalogInput := textinput.New()
	catalogInput.Placeholder = "/path/to/catalog.yaml (optional)"
	catalogInput.SetValue(catalogPath)
	catalogInput.Width = 60

	return SetupModel{
		endpointInput: endpointInput,
		catalogInput:  catalogInput,
		focus:         0,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down", "shift+tab", "up":
			if m.focus == 0 {
				m.focus = 1
				m.endpointInput.Blur()
				m.catalogInput.Focus()
			} else {
				m.focus = 0
				m.catalogInput.Blur()
				m.endpointInput.Focus()
			}
			return m, nil

		case "enter":
			endpoint := strings.TrimSpace(m.endpointInput.Value())
			catalogPath := strings.TrimSpace(m.catalogInput.Value())

			if endpoint == "" {
				m.error = "Search endpoint is required"
				return m, nil
			}
			if u, err := url.Parse(endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				m.error = "Search endpoint must be an http(s) URL"
				return m, nil
			}

			m.error = ""
			return m, func() tea.Msg {
				return SetupSubmitMsg{
					Endpoint:    endpoint,
					CatalogPath: catalogPath,
				}
			}
		}

		if m.focus == 0 {
			m.endpointInput, cmd = m.endpointInput.Update(msg)
		} else {
			m.catalogInput, cmd = m.catalogInput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SetupErrorMsg:
		m.error = msg.Error

	default:
		if m.focus == 0 {
			m.endpointInput, cmd = m.endpointInput.Update(msg)
		} else {
			m.catalogInput, cmd = m.catalogInput.Update(msg)
		}
	}

	return m, cmd
}

func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pfind - Setup") + "\n\n")
	b.WriteString("pfind sends each search to a person search service.\n\n")
	b.WriteString("1. Enter the URL of its search endpoint\n")
	b.WriteString("2. Optionally point to a YAML file of example company/designation pairs\n\n")

	b.WriteString(fieldLabel("Search Endpoint:", m.focus == 0) + "\n")
	b.WriteString(inputStyle.Render(m.endpointInput.View()) + "\n\n")

	b.WriteString(fieldLabel("Example Catalog:", m.focus == 1) + "\n")
	b.WriteString(inputStyle.Render(m.catalogInput.View()) + "\n")

	if m.error != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.error) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab switch field  enter save  esc cancel"))

	return b.String()
}
