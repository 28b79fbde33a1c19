package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/config"
	"github.com/vanderheijden86/stitchwork/pkg/debug"
	"github.com/vanderheijden86/stitchwork/pkg/metrics"
	"github.com/vanderheijden86/stitchwork/pkg/motion"
	"github.com/vanderheijden86/stitchwork/pkg/tutorial"
)

const (
	labelNext   = "Next Step →"
	labelFinish = "Finish Training"
	labelPlay   = "Play Voice"
	labelStop   = "Stop Voice"

	// rows below the viewport: button row and footer
	viewerChromeRows = 2

	imageMinCols = 16
	imageMaxCols = 40
	descMaxWidth = 60
)

// ViewerModel shows one step at a time and keeps narration in step with
// the display. The session owns the state machine; the model owns layout,
// animation and input.
type ViewerModel struct {
	sess  *tutorial.Session
	gen   int
	title string
	lib   *assets.Library
	theme Theme
	keys  ViewerKeyMap
	help  help.Model
	bar   progress.Model

	vp     viewport.Model
	header motion.Header

	pulse   motion.Value
	fps     int
	ticking bool

	tw    motion.Typewriter
	twMin time.Duration
	twMax time.Duration

	width  int
	height int

	status    string
	statusErr bool
	statusSeq int
}

// ViewerOptions configures a viewer.
type ViewerOptions struct {
	Title   string
	Config  config.Config
	Library *assets.Library
	Theme   Theme
	// Gen tags the viewer's async messages so ones from an earlier viewer
	// are dropped.
	Gen int
}

// NewViewerModel builds a viewer over sess. The session is mounted by Init.
func NewViewerModel(sess *tutorial.Session, opts ViewerOptions) ViewerModel {
	lib := opts.Library
	if lib == nil {
		lib = assets.Default()
	}
	h := help.New()
	h.Styles.ShortKey = opts.Theme.KeyHint
	h.Styles.ShortDesc = opts.Theme.KeyDesc
	h.Styles.FullKey = opts.Theme.KeyHint
	h.Styles.FullDesc = opts.Theme.KeyDesc

	m := ViewerModel{
		sess:   sess,
		gen:    opts.Gen,
		title:  opts.Title,
		lib:    lib,
		theme:  opts.Theme,
		keys:   DefaultViewerKeys(),
		help:   h,
		bar:    progress.New(progress.WithGradient("#BD93F9", "#FF79C6"), progress.WithoutPercentage()),
		vp:     viewport.New(80, 20),
		width:  80,
		height: 24,
	}
	m.ApplyConfig(opts.Config)
	m.SetSize(m.width, m.height)
	return m
}

// Init mounts the session and starts the narration listener and the
// description reveal.
func (m *ViewerModel) Init() tea.Cmd {
	m.sess.Mount()
	m.sess.ApplyPending()
	cmds := []tea.Cmd{waitNarrationCmd(m.sess, m.gen), m.startTyping()}
	m.refresh()
	return tea.Batch(cmds...)
}

// ApplyConfig applies voice and motion settings. It is safe to call while
// the viewer is showing.
func (m *ViewerModel) ApplyConfig(cfg config.Config) {
	m.sess.SetVoice(cfg.Narration.Voice)
	hdr, err := motion.NewHeader(cfg.HeaderConfig())
	if err != nil {
		debug.Log("viewer: header config rejected: %v", err)
		hdr, _ = motion.NewHeader(motion.DefaultHeaderConfig())
	}
	m.header = hdr
	m.twMin, m.twMax = cfg.TypewriterDelays()
	fps := cfg.Motion.FPS
	if fps <= 0 {
		fps = motion.DefaultFPS
	}
	if fps != m.fps {
		rest := motion.ScaleRest
		if m.fps > 0 {
			rest = m.pulse.Pos()
		}
		m.fps = fps
		m.pulse = motion.NewValue(rest, fps)
	}
	m.layout()
}

// SetSize sets the screen dimensions.
func (m *ViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.bar.Width = clampInt(width-24, 10, 40)
	m.layout()
	m.refresh()
}

// Update handles input, narration events and animation frames.
func (m ViewerModel) Update(msg tea.Msg) (ViewerModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.sess.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Home):
			return m, leaveCmd(false)
		case key.Matches(msg, m.keys.Next):
			return m.advance()
		case key.Matches(msg, m.keys.Voice):
			m.toggleVoice()
		case key.Matches(msg, m.keys.Down):
			m.vp.LineDown(1)
		case key.Matches(msg, m.keys.Up):
			m.vp.LineUp(1)
		case key.Matches(msg, m.keys.Skip):
			m.tw.Skip()
		case key.Matches(msg, m.keys.Copy):
			cmds = append(cmds, m.copyStep())
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.vp.LineDown(1)
		case tea.MouseButtonWheelUp:
			m.vp.LineUp(1)
		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				break
			}
			switch m.buttonAt(msg.X, msg.Y) {
			case buttonNext:
				return m.advance()
			case buttonVoice:
				m.toggleVoice()
			}
		}

	case narrationMsg:
		if msg.gen != m.gen || !msg.ok {
			return m, nil
		}
		m.sess.Apply(msg.ev)
		cmds = append(cmds, waitNarrationCmd(m.sess, m.gen))

	case typeTickMsg:
		if msg.gen != m.gen || msg.step != m.sess.Index() || m.tw.Done() {
			return m, nil
		}
		if m.tw.Advance() {
			cmds = append(cmds, typeTickCmd(m.gen, msg.step, m.tw.NextDelay()))
		}

	case viewerFrameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.pulse.Step() {
			cmds = append(cmds, viewerFrameCmd(m.gen, m.fps))
		} else {
			m.ticking = false
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}

	m.sess.ApplyPending()
	m.layout()
	m.refresh()
	return m, tea.Batch(cmds...)
}

// advance moves to the next step with a pulse, or leaves on the last one.
func (m ViewerModel) advance() (ViewerModel, tea.Cmd) {
	if m.sess.Advance() == tutorial.Completed {
		return m, leaveCmd(true)
	}
	m.sess.ApplyPending()
	m.pulse.Pulse()
	m.vp.GotoTop()
	cmds := []tea.Cmd{m.animate(), m.startTyping()}
	m.layout()
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *ViewerModel) toggleVoice() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.sess.ToggleNarration(ctx)
}

func (m *ViewerModel) copyStep() tea.Cmd {
	st := m.sess.Current()
	text := st.DisplayText + "\n\n" + st.Description
	if err := clipboard.WriteAll(text); err != nil {
		return m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
	}
	return m.setStatus("Copied step to clipboard", false)
}

func (m *ViewerModel) setStatus(s string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = s
	m.statusErr = isErr
	return clearStatusCmd(m.statusSeq)
}

// animate starts the frame loop unless it is already running.
func (m *ViewerModel) animate() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return viewerFrameCmd(m.gen, m.fps)
}

// startTyping begins revealing the current description.
func (m *ViewerModel) startTyping() tea.Cmd {
	idx := m.sess.Index()
	m.tw = motion.NewTypewriter(m.sess.Current().Description, m.twMin, m.twMax)
	if m.tw.Done() {
		return nil
	}
	return typeTickCmd(m.gen, idx, m.tw.NextDelay())
}

func leaveCmd(completed bool) tea.Cmd {
	return func() tea.Msg { return LeaveTutorialMsg{Completed: completed} }
}

// Close stops narration. Safe to call more than once.
func (m *ViewerModel) Close() {
	m.sess.Close()
}

// Session returns the underlying session.
func (m ViewerModel) Session() *tutorial.Session {
	return m.sess
}

// Typed returns the currently revealed description.
func (m ViewerModel) Typed() string {
	return m.tw.Visible()
}

// ImageScale returns the illustration's current scale.
func (m ViewerModel) ImageScale() float64 {
	return m.pulse.Pos()
}

// HeaderHeight returns the header height for the current scroll offset.
func (m ViewerModel) HeaderHeight() int {
	return m.header.Height(float64(m.vp.YOffset))
}

// ScrollOffset returns the body scroll position in lines.
func (m ViewerModel) ScrollOffset() int {
	return m.vp.YOffset
}

// layout sizes the viewport from the header height.
func (m *ViewerModel) layout() {
	bodyH := m.height - m.HeaderHeight() - viewerChromeRows
	if m.help.ShowAll {
		bodyH -= len(m.keys.FullHelp()[0]) - 1
	}
	m.vp.Width = max(m.width, 1)
	m.vp.Height = max(bodyH, 1)
}

// refresh rebuilds the scrollable body.
func (m *ViewerModel) refresh() {
	off := m.vp.YOffset
	m.vp.SetContent(m.body())
	m.vp.SetYOffset(off)
}

func (m ViewerModel) imageSize() (cols, rows int) {
	cols = clampInt(m.width/2, imageMinCols, imageMaxCols)
	rows = cols * assets.CanvasHeight / assets.CanvasWidth / 2
	return cols, max(rows, 1)
}

func (m ViewerModel) descWidth() int {
	return clampInt(m.width-4, 10, descMaxWidth)
}

// descRows returns a fixed height for the description box, sized from the
// longest description so the layout does not jump between steps.
func (m ViewerModel) descRows() int {
	w := m.descWidth()
	rows := m.sess.MaxDescriptionLength()/w + 2
	if n := len(wrapWords(m.tw.Full(), w)); n > rows {
		rows = n
	}
	return rows
}

func (m ViewerModel) body() string {
	t := m.theme
	st := m.sess.Current()
	width := max(m.width, 1)

	var lines []string
	cols, rows := m.imageSize()
	img := m.lib.Cells(t.Renderer, st.Image, cols, rows, m.pulse.Pos())
	for _, l := range strings.Split(img, "\n") {
		lines = append(lines, centerStyled(l, width))
	}
	lines = append(lines, "", centerStyled(t.Title.Render(truncate(st.DisplayText, width)), width), "")

	dw := m.descWidth()
	typed := wrapWords(m.tw.Visible(), dw)
	n := m.descRows()
	for i := 0; i < n; i++ {
		var l string
		if i < len(typed) {
			l = typed[i]
		}
		pad := strings.Repeat(" ", max(dw-lipgloss.Width(l), 0))
		lines = append(lines, centerStyled(t.Body.Render(l+pad), width))
	}
	return strings.Join(lines, "\n")
}

// centerStyled centres an already styled line.
func centerStyled(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}

func (m ViewerModel) renderHeader() string {
	t := m.theme
	h := m.HeaderHeight()
	rows := max(h-1, 1) // bottom border takes one row
	inner := max(m.width-2, 1)

	n, total := m.sess.Index()+1, m.sess.Len()
	label := t.StepLabel.Render(fmt.Sprintf("STEP %d/%d", n, total))
	var stepLine string
	if rows >= 3 {
		stepLine = label + "  " + m.bar.ViewAs(m.sess.Progress())
	} else {
		stepLine = label + " " + RenderStepBar(n, total, 12, t)
	}

	parts := []string{
		t.Title.Render(truncate(m.title, inner)),
		stepLine,
		t.Banner.Render(truncate(m.sess.Current().Banner(), inner)),
	}
	if rows < len(parts) {
		parts = parts[:rows]
	}
	top := (rows - len(parts)) / 2
	out := make([]string, 0, rows)
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	out = append(out, parts...)
	for len(out) < rows {
		out = append(out, "")
	}
	return t.Header.Width(max(m.width, 1)).Render(strings.Join(out, "\n"))
}

type button int

const (
	buttonNone button = iota
	buttonNext
	buttonVoice
)

func (m ViewerModel) buttons() (next, voice string) {
	t := m.theme
	nl := labelNext
	if m.sess.IsLast() {
		nl = labelFinish
	}
	next = t.ButtonPrimary.Render(nl)

	vl := labelPlay
	vs := t.Button
	if m.sess.IsNarrating() {
		vl = labelStop
		vs = t.ButtonActive
	}
	if !m.sess.Current().HasNarration() {
		vs = vs.Foreground(t.Muted)
	}
	voice = vs.Render(vl)
	return next, voice
}

// buttonRow returns the rendered row and the x offset of each button.
func (m ViewerModel) buttonRow() (row string, nextX, voiceX int) {
	next, voice := m.buttons()
	gap := strings.Repeat(" ", SpaceLG)
	row = voice + gap + next
	left := max((m.width-lipgloss.Width(row))/2, 0)
	voiceX = left
	nextX = left + lipgloss.Width(voice) + SpaceLG
	return strings.Repeat(" ", left) + row, nextX, voiceX
}

// buttonAt reports which button, if any, is at cell (x, y).
func (m ViewerModel) buttonAt(x, y int) button {
	rowY := lipgloss.Height(m.renderHeader()) + m.vp.Height
	if y != rowY {
		return buttonNone
	}
	next, voice := m.buttons()
	_, nextX, voiceX := m.buttonRow()
	switch {
	case x >= nextX && x < nextX+lipgloss.Width(next):
		return buttonNext
	case x >= voiceX && x < voiceX+lipgloss.Width(voice):
		return buttonVoice
	}
	return buttonNone
}

func (m ViewerModel) footer() string {
	if m.status != "" {
		style := m.theme.Status
		if m.statusErr {
			style = m.theme.StatusError
		}
		return style.Render(m.status)
	}
	return m.help.View(m.keys)
}

// View renders the header, body, buttons and footer.
func (m ViewerModel) View() string {
	defer metrics.Timer(metrics.ViewRender)()
	row, _, _ := m.buttonRow()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.vp.View(),
		row,
		m.footer(),
	)
}
