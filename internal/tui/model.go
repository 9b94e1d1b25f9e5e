package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mediapress/internal/pipeline"
)

type Model struct {
	updates <-chan pipeline.ProgressUpdate
	bar     progress.Model
	started time.Time

	width     int
	fileCount int
	fileIndex int
	file      string
	stage     string
	overall   int
	succeeded int
	failed    int
	quitting  bool
}

type doneMsg struct{}

type updateMsg pipeline.ProgressUpdate

func NewModel(updates <-chan pipeline.ProgressUpdate) Model {
	return Model{
		updates: updates,
		bar:     progress.New(progress.WithDefaultGradient()),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		u := pipeline.ProgressUpdate(msg)
		m.fileCount = u.FileCount
		m.fileIndex = u.FileIndex
		m.file = u.File
		m.stage = u.Stage.String()
		if u.Stage == pipeline.StageTransforming && u.Detail != "" {
			m.stage = u.Detail
		}
		m.overall = u.OverallPercent
		switch u.Stage {
		case pipeline.StageSucceeded:
			m.succeeded++
		case pipeline.StageFailed:
			m.failed++
		}
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 10
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth < 20 {
			barWidth = 20
		}
		m.bar.Width = barWidth
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := "waiting for files..."
	if m.file != "" {
		status = fmt.Sprintf("[%d/%d] %s", m.fileIndex+1, m.fileCount, m.file)
	}

	counts := fmt.Sprintf("done:%d", m.succeeded)
	if m.failed > 0 {
		counts += fmt.Sprintf("  failed:%d", m.failed)
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("mediapress"),
		labelStyle.Render(status) + "  " + dimStyle.Render(m.stage),
		m.bar.ViewAs(float64(m.overall) / 100),
		labelStyle.Render(counts) + dimStyle.Render(fmt.Sprintf("  elapsed: %s", elapsed)),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan pipeline.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
