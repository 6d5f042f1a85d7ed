package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"muteonloc/hotkey"
	"muteonloc/monitor"
	"muteonloc/tray"
	"muteonloc/zone"
)

// TUI message types
type StatusMsg struct{ Active bool }
type LocationMsg struct{ Text string }
type PermissionMsg struct{ Show bool }
type MuteMsg struct{ Muted bool }
type ZonesMsg struct{ Zones []zone.Zone }
type IntervalMsg struct{ Seconds int }
type NoticeMsg struct {
	Title string
	Text  string
	Alert bool // error or warning rather than information
}

type formStage int

const (
	formNone formStage = iota
	formAddress
	formRadius
)

type tuiModel struct {
	acts          tray.Actions
	width, height int

	active   bool
	muted    bool
	denied   bool
	location string
	zones    []zone.Zone
	interval int
	selected int
	notice   NoticeMsg

	stage   formStage
	editing int    // zone index being edited, -1 when adding
	input   string // text typed into the current form field
	address string // address entered in the first form step
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func newTUIModel(acts tray.Actions) tuiModel {
	return tuiModel{acts: acts, location: monitor.TextUnknown, editing: -1}
}

func NewTUIProgram(acts tray.Actions) *tea.Program {
	return tea.NewProgram(newTUIModel(acts), tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

// call runs fn off the update loop. Controller calls wait for the
// controller, which may itself be waiting to send to this program.
func call(title string, fn func() error) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(); err != nil {
			return NoticeMsg{Title: title, Text: err.Error(), Alert: true}
		}
		return nil
	}
}

func fire(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return nil
	}
}

// nextInterval returns the preset after seconds, wrapping around.
func nextInterval(seconds int) int {
	for i, p := range monitor.Intervals {
		if p.Seconds == seconds {
			return monitor.Intervals[(i+1)%len(monitor.Intervals)].Seconds
		}
	}
	for _, p := range monitor.Intervals {
		if p.Seconds > seconds {
			return p.Seconds
		}
	}
	return monitor.Intervals[0].Seconds
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.stage != formNone {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)

	case StatusMsg:
		m.active = msg.Active
	case LocationMsg:
		m.location = msg.Text
	case PermissionMsg:
		m.denied = msg.Show
	case MuteMsg:
		m.muted = msg.Muted
	case IntervalMsg:
		m.interval = msg.Seconds
	case NoticeMsg:
		m.notice = msg
	case ZonesMsg:
		m.zones = msg.Zones
		if m.selected >= len(m.zones) {
			m.selected = max(len(m.zones)-1, 0)
		}
	}
	return m, nil
}

func (m tuiModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		return m, fire(m.acts.ToggleActive)
	case "m":
		return m, fire(m.acts.ToggleMute)
	case "r":
		return m, fire(m.acts.Refresh)
	case "c":
		return m, fire(m.acts.CopyLocation)
	case "o":
		return m, fire(m.acts.OpenSettings)
	case "i":
		if m.acts.SetInterval == nil {
			return m, nil
		}
		next := nextInterval(m.interval)
		set := m.acts.SetInterval
		return m, call("Check Interval", func() error { return set(next) })
	case "+", "n":
		m.stage, m.editing, m.input = formAddress, -1, ""
	case "e":
		if len(m.zones) > 0 {
			m.stage, m.editing = formAddress, m.selected
			m.input = m.zones[m.selected].Address
		}
	case "d", "delete":
		if len(m.zones) == 0 || m.acts.DeleteZone == nil {
			return m, nil
		}
		i, del := m.selected, m.acts.DeleteZone
		return m, call("Delete Location", func() error { return del(i) })
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.zones)-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stage, m.input, m.address = formNone, "", ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeyEnter:
		if m.stage == formAddress {
			m.address = m.input
			m.stage = formRadius
			m.input = strconv.Itoa(zone.DefaultRadius)
			if m.editing >= 0 && m.editing < len(m.zones) {
				m.input = strconv.Itoa(m.zones[m.editing].Radius)
			}
			return m, nil
		}
		addr, radius, idx := m.address, m.input, m.editing
		m.stage, m.input, m.address = formNone, "", ""
		if idx < 0 {
			if m.acts.AddZone == nil {
				return m, nil
			}
			add := m.acts.AddZone
			return m, call("Invalid Location", func() error { return add(addr, radius) })
		}
		if m.acts.EditZone == nil {
			return m, nil
		}
		edit := m.acts.EditZone
		return m, call("Invalid Location", func() error { return edit(idx, addr, radius) })
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("muteonloc") + " " + dimStyle.Render(version) + "\n\n")

	if m.active {
		b.WriteString(activeStyle.Render("● ACTIVE"))
	} else {
		b.WriteString(idleStyle.Render("○ INACTIVE"))
	}
	b.WriteString("   ")
	if m.muted {
		b.WriteString(mutedStyle.Render("audio muted"))
	} else {
		b.WriteString(dimStyle.Render("audio on"))
	}
	b.WriteString("\n")

	b.WriteString("Location: " + m.location + "\n")
	if m.denied {
		b.WriteString(warnStyle.Render("⚠ Location access denied. Press o to open location settings.") + "\n")
	}
	if m.interval > 0 {
		b.WriteString(dimStyle.Render("Check interval: "+monitor.IntervalLabel(m.interval)) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("Target locations") + "\n")
	if len(m.zones) == 0 {
		b.WriteString(dimStyle.Render("  none, press + to add one") + "\n")
	}
	for i, z := range m.zones {
		line := fmt.Sprintf("%d. %s (%dm)", i+1, z.Address, z.Radius)
		if i == m.selected {
			b.WriteString(selStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.stage != formNone {
		label := "Address"
		if m.stage == formRadius {
			label = "Radius (m)"
		}
		b.WriteString("\n" + label + ": " + m.input + "█\n")
		b.WriteString(helpStyle.Render("enter to confirm, esc to cancel") + "\n")
	}

	if m.notice.Text != "" {
		style := dimStyle
		if m.notice.Alert {
			style = warnStyle
		}
		b.WriteString("\n" + style.Render(m.notice.Title+": "+m.notice.Text) + "\n")
	}

	b.WriteString("\n" + helpLine() + "\n")
	return b.String()
}

func helpLine() string {
	keys := []struct{ key, desc string }{
		{"a", "active"},
		{"m", "mute"},
		{"r", "refresh"},
		{"c", "copy"},
		{"+", "add"},
		{"e", "edit"},
		{"d", "delete"},
		{"i", "interval"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, helpKey.Render(k.key)+helpStyle.Render(" "+k.desc))
	}
	parts = append(parts, helpKey.Render(hotkey.Combo)+helpStyle.Render(" mute anywhere"))
	return strings.Join(parts, helpStyle.Render("  "))
}
