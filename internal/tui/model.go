// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/typedrift/retype/internal/profile"
	"github.com/typedrift/retype/internal/session"
)

const (
	// debounceWindow suppresses a repeated rune delivered twice by the host
	// terminal within this interval.
	debounceWindow = 50 * time.Millisecond
	flashDuration  = 300 * time.Millisecond
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	milestoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// flashClearMsg clears the error flash. Messages carrying a stale generation
// or sequence are no-ops, so a timer scheduled against a previous sentence
// can never disturb the current one.
type flashClearMsg struct {
	generation uint64
	seq        int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	sess    *session.Session
	tracker *profile.Tracker
	now     func() time.Time

	width  int
	height int

	flashActive bool
	flashSeq    int

	lastRune   rune
	lastRuneAt time.Time

	streak        int
	milestoneNote bool
}

// NewModel constructs a typing TUI model.
func NewModel(sess *session.Session, tracker *profile.Tracker) *Model {
	m := &Model{
		sess:    sess,
		tracker: tracker,
		now:     time.Now,
	}
	m.refreshStreak()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case flashClearMsg:
		if msg.generation == m.sess.Generation() && msg.seq == m.flashSeq {
			m.flashActive = false
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.handleReset()
			return m, nil
		case tea.KeySpace:
			return m, m.handleRune(' ')
		case tea.KeyRunes:
			var cmds []tea.Cmd
			for _, r := range msg.Runes {
				if cmd := m.handleRune(r); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
			return m, tea.Batch(cmds...)
		default:
			// Backspace, arrows, and the rest never reach the judge.
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sentence := []rune(m.sess.CurrentSentence())
	if len(sentence) == 0 {
		return ""
	}
	styledRunes := buildStyledRunes(sentence, m.sess.Cursor(), m.flashActive)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleRune(r rune) tea.Cmd {
	now := m.now()
	if r == m.lastRune && now.Sub(m.lastRuneAt) < debounceWindow {
		return nil
	}
	m.lastRune = r
	m.lastRuneAt = now

	res := m.sess.HandleKey(r)
	if res.Err != nil {
		logErrf("failed to save progress: %v\n", res.Err)
	}
	if res.SentenceStarted {
		if err := m.tracker.SentenceStarted(); err != nil {
			logErrf("failed to count sentence start: %v\n", err)
		}
	}
	if res.Outcome != session.OutcomeIgnored {
		milestone, err := m.tracker.ObserveWPM(res.WPM)
		if err != nil {
			logErrf("failed to check milestone: %v\n", err)
		}
		if milestone {
			m.milestoneNote = true
		}
	}

	switch res.Outcome {
	case session.OutcomeIncorrect:
		m.flashActive = true
		m.flashSeq++
		generation, seq := m.sess.Generation(), m.flashSeq
		return tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashClearMsg{generation: generation, seq: seq}
		})
	case session.OutcomeCorrect:
		if res.Completed != nil {
			m.flashActive = false
			milestone, err := m.tracker.SentenceCompleted(*res.Completed, res.WPM)
			if err != nil {
				logErrf("failed to update profile: %v\n", err)
			}
			if milestone {
				m.milestoneNote = true
			}
			m.refreshStreak()
		}
	}
	return nil
}

func (m *Model) handleReset() {
	if err := m.sess.Reset(); err != nil {
		logErrf("failed to reset progress: %v\n", err)
	}
	m.flashActive = false
	m.milestoneNote = false
}

func (m *Model) refreshStreak() {
	prof, err := m.tracker.Summary()
	if err != nil {
		logErrf("failed to load profile: %v\n", err)
		return
	}
	m.streak = prof.StreakCurrent
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%d WPM", m.sess.WPM()),
		fmt.Sprintf("Accuracy %d%%", m.sess.Accuracy()),
		fmt.Sprintf("Words %d", m.sess.TotalWords()),
	}
	if m.streak > 0 {
		segments = append(segments, fmt.Sprintf("Streak %dd", m.streak))
	}
	footer := footerStyle.Render(strings.Join(segments, " · "))
	if m.milestoneNote {
		footer += "  " + milestoneStyle.Render(fmt.Sprintf("★ %d+ WPM", m.tracker.MilestoneWPM()))
	}
	return footer
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
