package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultServerURL = "http://localhost:3536"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoadingRecipes
	stepBrowsing
	stepLoadingDetail
	stepViewingDetail
)

type model struct {
	client       *apiClient
	step         step
	email        string
	currentInput string
	recipes      []recipeSummary
	cursor       int
	detail       *recipeDetail
	message      string
	quitting     bool
}

type loginSuccessMsg struct{}
type recipesLoadedMsg []recipeSummary
type recipeLoadedMsg struct{ recipe *recipeDetail }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(client *apiClient) model {
	return model{
		client: client,
		step:   stepEnteringEmail,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(client *apiClient, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := client.login(email, password); err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{}
	}
}

func loadRecipes(client *apiClient) tea.Cmd {
	return func() tea.Msg {
		recipes, err := client.listRecipes()
		if err != nil {
			return errMsg{err}
		}
		return recipesLoadedMsg(recipes)
	}
}

func loadRecipe(client *apiClient, id uint) tea.Cmd {
	return func() tea.Msg {
		recipe, err := client.getRecipe(id)
		if err != nil {
			return errMsg{err}
		}
		return recipeLoadedMsg{recipe: recipe}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		typing := m.step == stepEnteringEmail || m.step == stepEnteringPassword

		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if !typing {
				m.quitting = true
				return m, tea.Quit
			}
			m.currentInput += msg.String()

		case "up", "k":
			if m.step == stepBrowsing && m.cursor > 0 {
				m.cursor--
			} else if typing && msg.String() == "k" {
				m.currentInput += "k"
			}

		case "down", "j":
			if m.step == stepBrowsing && m.cursor < len(m.recipes)-1 {
				m.cursor++
			} else if typing && msg.String() == "j" {
				m.currentInput += "j"
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "esc":
			if m.step == stepViewingDetail {
				m.step = stepBrowsing
				m.detail = nil
			}

		case "r":
			if m.step == stepBrowsing {
				m.step = stepLoadingRecipes
				return m, loadRecipes(m.client)
			}
			if typing {
				m.currentInput += "r"
			}

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					password := m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, loginUser(m.client, m.email, password)
				}

			case stepBrowsing:
				if len(m.recipes) > 0 {
					m.step = stepLoadingDetail
					return m, loadRecipe(m.client, m.recipes[m.cursor].ID)
				}

			case stepViewingDetail:
				m.step = stepBrowsing
				m.detail = nil
			}

		default:
			if typing && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
				m.currentInput += msg.String()
			}
		}

	case loginSuccessMsg:
		m.step = stepLoadingRecipes
		m.message = successStyle.Render("✓ Logged in as " + m.email)
		return m, loadRecipes(m.client)

	case recipesLoadedMsg:
		m.recipes = []recipeSummary(msg)
		if m.cursor >= len(m.recipes) {
			m.cursor = 0
		}
		m.step = stepBrowsing

	case recipeLoadedMsg:
		m.detail = msg.recipe
		m.step = stepViewingDetail

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		switch m.step {
		case stepLoggingIn:
			m.step = stepEnteringEmail
		default:
			m.step = stepBrowsing
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Recipe Browser"))
	s.WriteString("\n")

	switch m.step {
	case stepEnteringEmail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepLoadingRecipes, stepLoadingDetail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString("Loading...\n")

	case stepBrowsing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		if len(m.recipes) == 0 {
			s.WriteString("No recipes yet.\n")
		}
		for i, recipe := range m.recipes {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s (%d min, $%s)\n", cursor, style.Render(recipe.Title), recipe.TimeMinutes, recipe.Price))
		}
		s.WriteString("\nUse ↑/↓, Enter to open, r to reload, q to quit\n")

	case stepViewingDetail:
		s.WriteString(renderDetail(m.detail))
		s.WriteString("\nPress Enter or Esc to go back\n")
	}

	return s.String()
}

func renderDetail(r *recipeDetail) string {
	if r == nil {
		return ""
	}
	var s strings.Builder
	s.WriteString(promptStyle.Render(r.Title) + "\n\n")
	s.WriteString(fmt.Sprintf("%s %d minutes\n", labelStyle.Render("Time:"), r.TimeMinutes))
	s.WriteString(fmt.Sprintf("%s $%s\n", labelStyle.Render("Price:"), r.Price))
	if r.Link != "" {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Link:"), r.Link))
	}
	if len(r.Tags) > 0 {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Tags:"), joinNames(r.Tags)))
	}
	if len(r.Ingredients) > 0 {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ingredients:"), joinNames(r.Ingredients)))
	}
	if r.Image != nil {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Image:"), *r.Image))
	}
	if r.Description != "" {
		s.WriteString("\n" + r.Description + "\n")
	}
	return s.String()
}

func joinNames(items []named) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}

func main() {
	serverURL := os.Getenv("RECIPE_API_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	flag.StringVar(&serverURL, "server", serverURL, "base URL of the recipe server")
	flag.Parse()

	p := tea.NewProgram(initialModel(newAPIClient(serverURL)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
