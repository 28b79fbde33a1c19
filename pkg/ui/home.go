package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stitchwork/pkg/model"
	"github.com/vanderheijden86/stitchwork/pkg/motion"
)

const (
	homeTitle    = "Stitching Training"
	homeSubtitle = "Vocational Training Guide"

	// card size at rest scale, border included
	cardBaseWidth  = 30
	cardBaseHeight = 7
	homeDots       = 3

	homeDividerWidth = 24
)

// HomeModel is the landing screen: a title banner and a single card that
// opens the tutorial. The card shrinks while pressed and springs back on
// release, the release being what starts the tutorial.
type HomeModel struct {
	theme Theme
	keys  HomeKeyMap
	help  help.Model

	tutorial model.Tutorial
	scale    motion.Value
	fps      int
	pressed  bool
	ticking  bool
	frameGen int

	width  int
	height int

	status    string
	statusErr bool
	statusSeq int
}

// NewHomeModel returns the home screen for t.
func NewHomeModel(t model.Tutorial, theme Theme, fps int) HomeModel {
	if fps <= 0 {
		fps = motion.DefaultFPS
	}
	h := help.New()
	h.Styles.ShortKey = theme.KeyHint
	h.Styles.ShortDesc = theme.KeyDesc
	return HomeModel{
		theme:    theme,
		keys:     DefaultHomeKeys(),
		help:     h,
		tutorial: t,
		scale:    motion.NewValue(motion.ScaleRest, fps),
		fps:      fps,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model-style initialization.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update handles input for the home screen.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			if m.pressed {
				return m, nil
			}
			cmd := m.press()
			return m, tea.Batch(cmd, homeReleaseCmd())
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		switch msg.Action {
		case tea.MouseActionPress:
			if m.CardHit(msg.X, msg.Y) && !m.pressed {
				return m, m.press()
			}
		case tea.MouseActionRelease:
			if !m.pressed {
				return m, nil
			}
			if m.CardHit(msg.X, msg.Y) {
				return m.release()
			}
			return m, m.cancelPress()
		}

	case homeReleaseMsg:
		if m.pressed {
			return m.release()
		}

	case homeFrameMsg:
		if msg.gen != m.frameGen {
			return m, nil
		}
		if m.scale.Step() {
			return m, homeFrameCmd(m.frameGen, m.fps)
		}
		m.ticking = false

	case homeClearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}
	return m, nil
}

func (m *HomeModel) press() tea.Cmd {
	m.pressed = true
	m.scale.PressIn()
	return m.animate()
}

func (m HomeModel) release() (HomeModel, tea.Cmd) {
	m.pressed = false
	m.scale.Release()
	cmd := m.animate()
	start := func() tea.Msg { return StartTutorialMsg{} }
	return m, tea.Batch(cmd, start)
}

// cancelPress springs the card back without starting the tutorial, for a
// release that lands off the card.
func (m *HomeModel) cancelPress() tea.Cmd {
	m.pressed = false
	m.scale.Release()
	return m.animate()
}

// animate starts the frame loop unless it is already running.
func (m *HomeModel) animate() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return homeFrameCmd(m.frameGen, m.fps)
}

// Settle snaps the card to rest and abandons any running frame loop. The
// app calls it when the home screen is hidden.
func (m *HomeModel) Settle() {
	m.pressed = false
	m.scale = motion.NewValue(motion.ScaleRest, m.fps)
	m.ticking = false
	m.frameGen++
}

// Animating reports whether a frame loop is running.
func (m HomeModel) Animating() bool {
	return m.ticking
}

// SetSize sets the screen dimensions.
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// SetFPS changes the animation frame rate.
func (m *HomeModel) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	m.fps = fps
	m.scale = motion.NewValue(m.scale.Pos(), fps)
}

// SetStatus shows a transient message under the card.
func (m *HomeModel) SetStatus(s string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = s
	m.statusErr = isErr
	return homeClearStatusCmd(m.statusSeq)
}

// Scale returns the card's current scale.
func (m HomeModel) Scale() float64 {
	return m.scale.Pos()
}

// Pressed reports whether the card is held down.
func (m HomeModel) Pressed() bool {
	return m.pressed
}

// cardSize returns the card's outer size at the current scale.
func (m HomeModel) cardSize() (int, int) {
	s := m.scale.Pos()
	w := int(math.Round(cardBaseWidth * s))
	h := int(math.Round(cardBaseHeight * s))
	return max(w, 12), max(h, 5)
}

// layout returns the rendered blocks and the card's top-left corner.
func (m HomeModel) layout() (top string, card string, bottom string, cardX, cardY int) {
	t := m.theme

	top = lipgloss.JoinVertical(lipgloss.Center,
		t.Title.Render(homeTitle),
		t.Subtitle.Render(homeSubtitle),
		RenderDivider(homeDividerWidth, t),
	)

	w, h := m.cardSize()
	name := m.tutorial.Name
	if name == "" {
		name = m.tutorial.Title
	}
	if m.tutorial.Icon != "" {
		name = m.tutorial.Icon + " " + name
	}
	inner := w - 2
	body := lipgloss.JoinVertical(lipgloss.Center,
		t.CardTitle.Render(truncate(name, inner)),
		"",
		t.CardCTA.Render(truncate(m.tutorial.Subtitle, inner)),
	)
	cardStyle := t.Card
	if m.pressed {
		cardStyle = cardStyle.BorderForeground(t.Accent)
	}
	card = cardStyle.
		Width(inner).
		Height(h - 2).
		AlignVertical(lipgloss.Center).
		Render(body)

	var b strings.Builder
	b.WriteString(RenderStepDots(homeDots, t))
	b.WriteString("\n\n")
	if m.status != "" {
		style := t.Status
		if m.statusErr {
			style = t.StatusError
		}
		b.WriteString(style.Render(m.status))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	bottom = b.String()

	blockH := lipgloss.Height(top) + 1 + h + 1 + lipgloss.Height(bottom)
	y0 := max((m.height-blockH)/2, 0)
	cardY = y0 + lipgloss.Height(top) + 1
	cardX = max((m.width-lipgloss.Width(card))/2, 0)
	return top, card, bottom, cardX, cardY
}

// CardHit reports whether the cell (x, y) lies on the card.
func (m HomeModel) CardHit(x, y int) bool {
	_, card, _, cx, cy := m.layout()
	return x >= cx && x < cx+lipgloss.Width(card) && y >= cy && y < cy+lipgloss.Height(card)
}

// View renders the home screen centred in the terminal.
func (m HomeModel) View() string {
	top, card, bottom, _, _ := m.layout()
	block := lipgloss.JoinVertical(lipgloss.Center, top, "", card, "", bottom)
	return m.theme.Renderer.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}
