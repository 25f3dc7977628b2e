package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/local-minimum/fseq/internal/reader"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
	dangerColor    = lipgloss.Color("#EF4444") // Red
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	okStyle     = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	reportStyle = lipgloss.NewStyle().Foreground(accentColor)
)

type listItem struct {
	result reader.Result
}

func (i listItem) FilterValue() string {
	return i.result.Source
}

func (i listItem) Title() string {
	return filepath.Base(i.result.Source)
}

func (i listItem) Description() string {
	if i.result.Err != "" {
		return failStyle.Render("failed")
	}
	return fmt.Sprintf("%s    %d records", okStyle.Render(i.result.Format), i.result.Records)
}

type mode int

const (
	modeOverview mode = iota
	modeReports
	modeError
)

func (m mode) String() string {
	switch m {
	case modeOverview:
		return "Overview"
	case modeReports:
		return "Reports"
	case modeError:
		return "Errors"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	results       []reader.Result
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	totalResults  int
	selectedIndex int
}

func loadResults(path string) ([]reader.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []reader.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return results, nil
}

func initialModel(results []reader.Result) model {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = listItem{result: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "fseq run"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:         l,
		results:      results,
		currentMode:  modeOverview,
		totalResults: len(results),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// cycleMode advances to the next detail view.
func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate list dimensions (left panel takes 1/3 of width)
		listWidth := msg.Width / 3
		listHeight := msg.Height - 4 // Account for borders and status

		m.list.SetWidth(listWidth)
		m.list.SetHeight(listHeight)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "h":
			m.showHelp = !m.showHelp
			return m, nil

		case "tab":
			return m.cycleMode(), nil

		case "1":
			m.currentMode = modeOverview
			return m, nil

		case "2":
			m.currentMode = modeReports
			return m, nil

		case "3":
			m.currentMode = modeError
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Help modal overlay
	if m.showHelp {
		return m.renderHelpModal()
	}

	// Main layout
	leftPanel := m.renderLeftPanel()
	rightPanel := m.renderRightPanel()
	statusBar := m.renderStatusBar()

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		rightPanel,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		statusBar,
	)
}

func (m model) renderLeftPanel() string {
	listWidth := m.width / 3

	listContainer := containerStyle.
		Width(listWidth - 2). // Account for padding
		Height(m.height - 4). // Account for status bar
		Render(m.list.View())

	return listContainer
}

func (m model) renderRightPanel() string {
	rightWidth := (m.width * 2) / 3

	if len(m.results) == 0 {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No sources in this run")
	}

	selectedItem := m.list.SelectedItem()
	if selectedItem == nil {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No source selected")
	}

	res := selectedItem.(listItem).result

	header := titleStyle.Render(res.Source)

	var body string
	switch m.currentMode {
	case modeOverview:
		body = strings.Join(m.overviewLines(res), "\n")
	case modeReports:
		body = strings.Join(m.reportLines(res), "\n")
	case modeError:
		body = m.errorBody(res)
	}

	panelContent := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		detailStyle.Width(rightWidth-6).Render(body),
	)

	return containerStyle.
		Width(rightWidth - 2).
		Height(m.height - 4).
		Render(panelContent)
}

// overviewLines lists the run facts for one source.
func (m model) overviewLines(res reader.Result) []string {
	status := okStyle.Render("ok")
	if res.Err != "" {
		status = failStyle.Render("failed")
	}
	return []string{
		labelStyle.Render("Status:   ") + status,
		labelStyle.Render("Job:      ") + res.JobID,
		labelStyle.Render("Format:   ") + res.Format,
		labelStyle.Render("Encoder:  ") + res.Encoder,
		labelStyle.Render("Records:  ") + fmt.Sprintf("%d", res.Records),
		labelStyle.Render("Width:    ") + fmt.Sprintf("%d", res.Width),
		labelStyle.Render("Duration: ") + fmt.Sprintf("%d ms", res.DurationMS),
	}
}

func (m model) reportLines(res reader.Result) []string {
	if len(res.Reports) == 0 {
		return []string{labelStyle.Render("No reports were written for this source")}
	}
	lines := make([]string, 0, len(res.Reports))
	for _, p := range res.Reports {
		lines = append(lines, reportStyle.Render(p))
	}
	return lines
}

func (m model) errorBody(res reader.Result) string {
	if res.Err == "" {
		return okStyle.Render("No errors")
	}
	return failStyle.Render(res.Err)
}

func (m model) renderStatusBar() string {
	// Left side - navigation info
	leftInfo := fmt.Sprintf("%d/%d sources", m.selectedIndex+1, m.totalResults)

	// Center - current mode
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode.String())

	// Right side - help hint
	rightInfo := "Press 'h' for help, 'q' to quit"

	totalUsed := len(leftInfo) + len(centerInfo) + len(rightInfo)
	spacing := m.width - totalUsed - 6 // Account for padding

	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		rightSpacing := spacing - leftSpacing

		statusContent = fmt.Sprintf("%s%s%s%s%s",
			leftInfo,
			strings.Repeat(" ", leftSpacing),
			centerInfo,
			strings.Repeat(" ", rightSpacing),
			rightInfo,
		)
	} else {
		// Fallback for narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}

	return statusBarStyle.
		Width(m.width).
		Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `fseq run browser - Help

Navigation:
  up/down, j/k  Navigate sources
  /             Filter sources
  tab           Cycle detail view

View Modes:
  1             Overview (format, records, width)
  2             Report files
  3             Errors

General:
  h             Toggle this help
  q, Ctrl+C     Quit

Current Mode: ` + m.currentMode.String() + `
Total Sources: ` + fmt.Sprintf("%d", m.totalResults) + `
`

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Align(lipgloss.Center)

	modal := modalStyle.Render(helpContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func main() {
	path := "fseq-run.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	results, err := loadResults(path)
	if err != nil {
		log.Fatal(err)
	}
	p := tea.NewProgram(initialModel(results), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
