// Package tray shows the controller state in the menu bar and forwards menu
// clicks to registered actions.
package tray

import (
	"fmt"
	"sync"

	"muteonloc/monitor"
	"muteonloc/zone"
)

// Actions are invoked from menu clicks, off the controller loop.
type Actions struct {
	ToggleActive func()
	ToggleMute   func()
	Refresh      func()
	CopyLocation func()
	OpenSettings func()
	AddZone      func(address, radius string) error
	EditZone     func(i int, address, radius string) error
	DeleteZone   func(i int) error
	SetInterval  func(seconds int) error
	Login        func(on bool) error
}

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	mu       sync.Mutex
	actions  Actions
	active   bool
	muted    bool
	denied   bool
	locText  = monitor.TextUnknown
	zones    []zone.Zone
	interval int
	loginOn  bool
)

func SetActions(a Actions) {
	mu.Lock()
	actions = a
	mu.Unlock()
}

func SetLogin(on bool) { loginOn = on }

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

func currentActions() Actions {
	mu.Lock()
	defer mu.Unlock()
	return actions
}

func statusTitle(on bool) string {
	if on {
		return "Status: Active"
	}
	return "Status: Inactive"
}

func muteTitle(m bool) string {
	if m {
		return "Unmute Audio"
	}
	return "Mute Audio"
}

func locationTitle(text string) string {
	return "Location: " + text
}

func zoneTitle(z zone.Zone) string {
	return fmt.Sprintf("%s (%dm)", z.Address, z.Radius)
}

func tooltip(on, m bool) string {
	state := "inactive"
	if on {
		state = "active"
	}
	if m {
		return "muteonloc: " + state + ", muted"
	}
	return "muteonloc: " + state
}

// Presenter renders controller updates into the menu. It only records the
// new state and repaints; dialogs run on their own goroutines.
type Presenter struct{}

func (Presenter) Status(on bool) {
	mu.Lock()
	active = on
	m := muted
	mu.Unlock()
	updateStatus(on)
	updateIcon(on, m, isDenied())
}

func (Presenter) Location(text string) {
	mu.Lock()
	locText = text
	mu.Unlock()
	updateLocation(locationTitle(text))
}

func (Presenter) PermissionHint(show bool) {
	mu.Lock()
	denied = show
	on, m := active, muted
	mu.Unlock()
	updatePermission(show)
	updateIcon(on, m, show)
}

func (Presenter) MuteState(m bool) {
	mu.Lock()
	muted = m
	on := active
	mu.Unlock()
	updateMute(m)
	updateIcon(on, m, isDenied())
}

func (Presenter) Zones(zs []zone.Zone) {
	mu.Lock()
	zones = append([]zone.Zone(nil), zs...)
	mu.Unlock()
	refreshZones(zs)
}

func (Presenter) Interval(seconds int) {
	mu.Lock()
	interval = seconds
	mu.Unlock()
	updateInterval(seconds)
}

// Notify is delivered by the notify package.
func (Presenter) Notify(string, string) {}

func (Presenter) Alert(title, message string) {
	go showAlert(title, message)
}

func isDenied() bool {
	mu.Lock()
	defer mu.Unlock()
	return denied
}

func zoneAt(i int) (zone.Zone, bool) {
	mu.Lock()
	defer mu.Unlock()
	if i < 0 || i >= len(zones) {
		return zone.Zone{}, false
	}
	return zones[i], true
}

// report surfaces a failed action as an alert.
func report(title string, err error) {
	if err != nil {
		showAlert(title, err.Error())
	}
}

func addZoneDialog() {
	a := currentActions()
	if a.AddZone == nil {
		return
	}
	addr, ok := prompt("Add Location", "Enter address:", "")
	if !ok {
		return
	}
	radius, ok := prompt("Add Location", "Enter radius in meters:", fmt.Sprint(zone.DefaultRadius))
	if !ok {
		return
	}
	report("Invalid Location", a.AddZone(addr, radius))
}

func editZoneDialog(i int) {
	a := currentActions()
	z, found := zoneAt(i)
	if a.EditZone == nil || !found {
		return
	}
	addr, ok := prompt("Edit Location", "Edit address:", z.Address)
	if !ok {
		return
	}
	radius, ok := prompt("Edit Location", "Edit radius in meters:", fmt.Sprint(z.Radius))
	if !ok {
		return
	}
	report("Invalid Location", a.EditZone(i, addr, radius))
}

func deleteZone(i int) {
	a := currentActions()
	if a.DeleteZone == nil {
		return
	}
	report("Delete Location", a.DeleteZone(i))
}

func pickInterval(seconds int) {
	a := currentActions()
	if a.SetInterval == nil {
		return
	}
	report("Check Interval", a.SetInterval(seconds))
}

func toggleLogin(on bool) bool {
	a := currentActions()
	if a.Login == nil {
		return on
	}
	if err := a.Login(on); err != nil {
		report("Start on Login", err)
		return !on
	}
	loginOn = on
	return on
}

func run(fn func()) {
	if fn != nil {
		go fn()
	}
}
