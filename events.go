package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"muteonloc/log"
	"muteonloc/monitor"
	"muteonloc/notify"
	"muteonloc/zone"
)

// tuiPresenter forwards controller updates to the terminal UI. Send
// returns once the program has stopped, so a closed TUI never stalls the
// controller.
type tuiPresenter struct {
	p *tea.Program
}

func (t *tuiPresenter) send(msg tea.Msg) {
	if t.p != nil {
		t.p.Send(msg)
	}
}

func (t *tuiPresenter) Status(active bool)       { t.send(StatusMsg{Active: active}) }
func (t *tuiPresenter) Location(text string)     { t.send(LocationMsg{Text: text}) }
func (t *tuiPresenter) PermissionHint(show bool) { t.send(PermissionMsg{Show: show}) }
func (t *tuiPresenter) MuteState(muted bool)     { t.send(MuteMsg{Muted: muted}) }
func (t *tuiPresenter) Zones(zs []zone.Zone)     { t.send(ZonesMsg{Zones: zs}) }
func (t *tuiPresenter) Interval(seconds int)     { t.send(IntervalMsg{Seconds: seconds}) }

func (t *tuiPresenter) Notify(title, message string) {
	t.send(NoticeMsg{Title: title, Text: message})
}

func (t *tuiPresenter) Alert(title, message string) {
	t.send(NoticeMsg{Title: title, Text: message, Alert: true})
}

// notifyPresenter shows notifications on the desktop and ignores the rest.
type notifyPresenter struct {
	monitor.NopPresenter
	n *notify.Notifier
}

func (np notifyPresenter) Notify(title, message string) {
	go func() {
		if err := np.n.Send(title, message); err != nil {
			log.Warnf("notification %q: %v", title, err)
		}
	}()
}
