package lcdsim

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
)

// Snapshot is what the emulated display showed after a render.
type Snapshot struct {
	Lines     [2]string
	Backlight display.RGB
	Text      string
	At        time.Time
}

type snapshotMsg Snapshot

type statusMsg string

type closedMsg struct{}

type model struct {
	url       string
	snapshots <-chan Snapshot
	status    <-chan string
	toggle    func() bool

	screen   Snapshot
	renders  int
	state    string
	linkDown bool
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listenForSnapshot(m.snapshots), listenForStatus(m.status))
}

func listenForSnapshot(ch <-chan Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(s)
	}
}

func listenForStatus(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return statusMsg(s)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "d":
			if m.toggle != nil {
				m.linkDown = m.toggle()
			}
		}
	case snapshotMsg:
		m.screen = Snapshot(msg)
		m.renders++
		return m, listenForSnapshot(m.snapshots)
	case statusMsg:
		m.state = string(msg)
		return m, listenForStatus(m.status)
	}
	return m, nil
}

func (m model) View() string {
	var b []byte
	b = append(b, titleStyle.Render("lcdfeed simulator")...)
	b = append(b, '\n')
	b = append(b, statusStyle.Render("source: "+m.url)...)
	b = append(b, '\n', '\n')
	b = append(b, RenderScreen(m.screen.Lines, m.screen.Backlight)...)
	b = append(b, '\n')

	state := m.state
	if m.linkDown {
		state = "link dropped"
	}
	if !m.screen.At.IsZero() {
		state += " | render #" + strconv.Itoa(m.renders) + " at " + m.screen.At.Format("15:04:05")
	}
	b = append(b, statusStyle.Render(state)...)
	b = append(b, '\n')
	b = append(b, helpStyle.Render("d: drop/restore wifi  q: quit")...)
	b = append(b, '\n')
	return string(b)
}
