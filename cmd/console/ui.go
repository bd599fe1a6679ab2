package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"gaiaterm/pkg/engine"
	"gaiaterm/pkg/oracle"
	"gaiaterm/pkg/transcript"
)

const (
	TerminalTitle   = "GAIA TERMINAL"
	PlaceHolderText = "Type a command..."
	NamePlaceHolder = "Enter your name..."
)

// ConsoleUI is the BubbleTea model that runs the terminal.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config  *ConsoleConfig
	client  *http.Client
	session *engine.Session

	highlighter *transcript.Highlighter

	transcriptViewport viewport.Model
	metaViewport       viewport.Model
	input              textinput.Model
	ready              bool
	width              int
	height             int

	// lines holds fully revealed transcript entries; pending holds
	// entries waiting behind the typewriter so transcript order is
	// preserved while narrative is still being revealed.
	lines         []string
	pending       []transcriptEntry
	tw            *transcript.Typewriter
	lastNarration string

	choices []string

	loading      bool
	progressTick int

	// Name entry state
	showNameModal bool

	// Quit confirmation state
	showQuitModal bool
}

// transcriptEntry is one queued transcript line. Typed entries reveal
// through the typewriter; the rest render instantly when reached.
type transcriptEntry struct {
	text  string
	typed bool
}

type turnResultMsg struct {
	command  string
	response *oracle.TurnResponse
	err      error
}

type typeTickMsg struct{}

type progressTickMsg struct{}

var (
	transcriptPanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("48")). // terminal green
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // violet

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("48")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = NamePlaceHolder
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Width = 50

	tvp := viewport.New(50, 20)
	tvp.MouseWheelEnabled = true

	mvp := viewport.New(20, 20)

	return ConsoleUI{
		config:             cfg,
		client:             client,
		highlighter:        transcript.NewHighlighter(),
		input:              ti,
		transcriptViewport: tvp,
		metaViewport:       mvp,
		ready:              false,
		showNameModal:      true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showNameModal {
		return m.updateNameModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeTranscript()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyCtrlY:
			if m.lastNarration != "" {
				if err := clipboard.WriteAll(m.lastNarration); err == nil {
					m.appendInstant(systemStyle.Render("Narration copied to clipboard."))
					m.writeTranscript()
				}
			}
			return m, nil

		case tea.KeyUp:
			if entry, ok := m.session.Commands().Prev(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil

		case tea.KeyDown:
			if entry, ok := m.session.Commands().Next(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			return m.submit(strings.TrimSpace(m.input.Value()))

		default:
			// Digit keys pick a choice when the input line is empty.
			if len(m.choices) > 0 && !m.loading && m.input.Value() == "" {
				if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.choices) {
					return m.submit(m.choices[n-1])
				}
			}
		}

	case turnResultMsg:
		m.loading = false
		if msg.err != nil {
			ev := m.session.FailTurn(msg.err)
			m.appendInstant(errorStyle.Render(ev.Text))
		} else {
			m.applyEvents(m.session.ApplyResponse(msg.command, msg.response))
		}
		cmd := m.startTypewriter()
		m.writeTranscript()
		m.writeMetadata()
		return m, cmd

	case typeTickMsg:
		if m.tw == nil {
			return m, nil
		}
		m.tw.Advance()
		if m.tw.Done() {
			m.lines = append(m.lines, narratorStyle.Render("GAIA: ")+m.tw.Full(), "")
			m.tw = nil
			m.nextPending()
		}
		m.writeTranscript()
		if m.tw != nil {
			return m, typeTick()
		}
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeTranscript()
			return m, progressTick()
		}
	}

	m.input, tiCmd = m.input.Update(msg)
	m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// submit runs player input through normalization, local dispatch and,
// when neither resolves it, an oracle turn.
func (m ConsoleUI) submit(input string) (tea.Model, tea.Cmd) {
	canonical, expanded, ok := m.session.Normalize(input)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.choices = nil

	echo := "> " + input
	if expanded {
		echo += " (" + canonical + ")"
	}
	m.appendInstant(userStyle.Render(echo))

	if canonical == engine.CmdQuit {
		m.writeTranscript()
		m.showQuitModal = true
		return m, nil
	}

	if result := m.session.DispatchLocal(canonical); result.Handled {
		for _, line := range result.Lines {
			m.appendInstant(narratorStyle.Render(line))
		}
		m.writeTranscript()
		return m, nil
	}

	return m.startTurn(canonical)
}

// startTurn snapshots the session and dispatches the oracle request.
// A turn already in flight drops the submission.
func (m ConsoleUI) startTurn(command string) (tea.Model, tea.Cmd) {
	req, err := m.session.BeginTurn(command)
	if err != nil {
		m.writeTranscript()
		return m, nil
	}
	m.loading = true
	m.progressTick = 0
	m.writeTranscript()
	return m, tea.Batch(m.sendTurn(command, req), progressTick())
}

func (m ConsoleUI) sendTurn(command string, req *oracle.TurnRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := requestTurn(m.client, m.config.APIBaseURL, req)
		return turnResultMsg{command: command, response: resp, err: err}
	}
}

// applyEvents routes reconciliation events to the transcript: narrative
// goes through the typewriter, everything else renders instantly.
func (m *ConsoleUI) applyEvents(events []engine.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventNarrative:
			plain := transcript.Sanitize(ev.Text)
			m.lastNarration = plain
			m.pending = append(m.pending, transcriptEntry{
				text:  m.highlighter.Highlight(plain),
				typed: true,
			})
		case engine.EventSystem:
			m.appendInstant(systemStyle.Render(ev.Text))
		case engine.EventError:
			m.appendInstant(errorStyle.Render(ev.Text))
		case engine.EventChoices:
			m.choices = ev.Choices
		}
	}
}

// appendInstant renders a line immediately unless narrative is still
// being revealed, in which case it queues behind it.
func (m *ConsoleUI) appendInstant(line string) {
	if m.tw != nil || len(m.pending) > 0 {
		m.pending = append(m.pending, transcriptEntry{text: line})
		return
	}
	m.lines = append(m.lines, line, "")
}

// startTypewriter begins revealing queued narrative, if any. When a
// reveal is already underway its tick loop picks up the queue, so no
// second loop is started.
func (m *ConsoleUI) startTypewriter() tea.Cmd {
	if m.tw != nil {
		return nil
	}
	m.nextPending()
	if m.tw != nil {
		return typeTick()
	}
	return nil
}

// nextPending drains instant entries and starts the typewriter on the
// next typed entry, if any.
func (m *ConsoleUI) nextPending() {
	for len(m.pending) > 0 {
		entry := m.pending[0]
		m.pending = m.pending[1:]
		if entry.typed {
			m.tw = transcript.NewTypewriter(entry.text)
			return
		}
		m.lines = append(m.lines, entry.text, "")
	}
}

func (m *ConsoleUI) resize() {
	transcriptWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - transcriptWidth - 6

	m.transcriptViewport.Width = transcriptWidth - 2
	m.transcriptViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.input.Width = transcriptWidth - 8
}

func (m *ConsoleUI) contentWidth() int {
	w := m.transcriptViewport.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

// writeTranscript rebuilds the transcript viewport from revealed
// lines, the in-flight typewriter prefix and the loading indicator.
func (m *ConsoleUI) writeTranscript() {
	width := m.contentWidth()

	var content strings.Builder
	content.WriteString(titleStyle.Render(TerminalTitle) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, line := range m.lines {
		content.WriteString(line + "\n")
	}
	if m.tw != nil {
		content.WriteString(narratorStyle.Render("GAIA: ") + m.tw.Prefix() + "\n")
	}
	if m.loading {
		content.WriteString("\n" + m.renderProgressBar() + "\n")
	}

	m.transcriptViewport.SetContent(wordwrap.String(content.String(), width))
	m.transcriptViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Operator:\n")
	content.WriteString(m.session.PlayerName() + "\n\n")

	content.WriteString("Sector Stability:\n")
	content.WriteString(fmt.Sprintf("%.0f%%\n\n", m.session.SectorStability()))

	content.WriteString("AI Sync:\n")
	content.WriteString(fmt.Sprintf("%.0f%%\n\n", m.session.AISync()))

	content.WriteString("Inventory:\n")
	inventory := m.session.Inventory()
	if len(inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range inventory {
			content.WriteString("• " + item + "\n")
		}
	}

	if loc := m.session.Location(); loc != "" {
		content.WriteString("\nLocation:\n")
		content.WriteString(wordwrap.String(loc, m.metaViewport.Width-2) + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Keys:\n")
	content.WriteString("• ↑/↓: Command history\n")
	content.WriteString("• 1-9: Pick a choice\n")
	content.WriteString("• Ctrl+Y: Copy narration\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) updateNameModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			m.session = engine.NewSession(name)
			m.showNameModal = false
			m.input.Reset()
			m.input.Placeholder = PlaceHolderText
			m.input.Focus()
			m.writeTranscript()
			m.writeMetadata()
			// The start sentinel requests the opening narration.
			model, cmd := m.startTurn(oracle.StartCommand)
			return model, tea.Batch(cmd, textinput.Blink)
		}
	}

	var tiCmd tea.Cmd
	m.input, tiCmd = m.input.Update(msg)
	return m, tiCmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.input.Focus()
				return m, textinput.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderNameModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(TerminalTitle))
	content.WriteString("\n\n")
	content.WriteString("An orbital station terminal flickers to life.")
	content.WriteString("\n\n")
	content.WriteString("Who is at the console?")
	content.WriteString("\n\n")
	content.WriteString(m.input.View())
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Enter to connect, Ctrl+C to exit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Disconnect?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the terminal?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderChoices() string {
	if len(m.choices) == 0 {
		return ""
	}
	var content strings.Builder
	for i, choice := range m.choices {
		content.WriteString(choiceStyle.Render(fmt.Sprintf("%d) %s", i+1, choice)))
		if i < len(m.choices)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}

func (m ConsoleUI) View() string {
	if m.showNameModal {
		return m.renderNameModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	transcriptWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - transcriptWidth - 6

	parts := []string{
		m.transcriptViewport.View(),
		"",
		separatorStyle.Render(strings.Repeat("─", transcriptWidth-4)),
	}
	if choices := m.renderChoices(); choices != "" {
		parts = append(parts, choices)
	}
	parts = append(parts, m.input.View())

	transcriptPanel := transcriptPanelStyle.Width(transcriptWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, transcriptPanel, metaPanel)
}

// renderProgressBar animates a bar while an oracle turn is in flight.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.contentWidth()
	if usable > 60 {
		usable = 60
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// typeTick drives the typewriter reveal.
func typeTick() tea.Cmd {
	return tea.Tick(transcript.CharDelay, func(time.Time) tea.Msg {
		return typeTickMsg{}
	})
}

// progressTick drives the loading animation.
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
