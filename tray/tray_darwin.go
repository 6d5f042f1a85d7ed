//go:build darwin

package tray

import (
	"sync"

	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"

	"muteonloc/monitor"
	"muteonloc/zone"
)

type zoneItem struct {
	parent *systray.MenuItem
	edit   *systray.MenuItem
	del    *systray.MenuItem
}

var (
	menuMu sync.Mutex
	ready  bool

	mStatus     *systray.MenuItem
	mLocation   *systray.MenuItem
	mEnableLoc  *systray.MenuItem
	mZones      *systray.MenuItem
	mInterval   *systray.MenuItem
	mMute       *systray.MenuItem
	zoneItems   []zoneItem
	intervalIts []*systray.MenuItem
)

func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateStatus(on bool) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if mStatus != nil {
		mStatus.SetTitle(statusTitle(on))
		if on {
			mStatus.Check()
		} else {
			mStatus.Uncheck()
		}
	}
}

func updateLocation(title string) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if mLocation != nil {
		mLocation.SetTitle(title)
	}
}

func updatePermission(show bool) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if mEnableLoc == nil {
		return
	}
	if show {
		mEnableLoc.Show()
	} else {
		mEnableLoc.Hide()
	}
}

func updateMute(m bool) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if mMute != nil {
		mMute.SetTitle(muteTitle(m))
	}
}

func updateIcon(on, m, warn bool) {
	switch {
	case warn:
		systray.SetIcon(iconWarnHi)
	case m:
		systray.SetIcon(iconMutedHi)
	case on:
		systray.SetTemplateIcon(iconActiveHi, iconActive)
	default:
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
	}
	systray.SetTooltip(tooltip(on, m))
}

func updateInterval(seconds int) {
	menuMu.Lock()
	defer menuMu.Unlock()
	for i, it := range intervalIts {
		if monitor.Intervals[i].Seconds == seconds {
			it.Check()
		} else {
			it.Uncheck()
		}
	}
}

func addZoneItem(idx int, z zone.Zone) zoneItem {
	title := zoneTitle(z)
	parent := mZones.AddSubMenuItem(title, z.Address)
	zi := zoneItem{
		parent: parent,
		edit:   parent.AddSubMenuItem("Edit...", "Change address or radius"),
		del:    parent.AddSubMenuItem("Delete", "Remove this location"),
	}
	zi.edit.Click(func() { go editZoneDialog(idx) })
	zi.del.Click(func() { go deleteZone(idx) })
	return zi
}

// refreshZones reuses existing items and hides the surplus; systray cannot
// remove menu items.
func refreshZones(zs []zone.Zone) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if !ready {
		return
	}
	for i, zi := range zoneItems {
		if i < len(zs) {
			zi.parent.SetTitle(zoneTitle(zs[i]))
			zi.parent.SetTooltip(zs[i].Address)
			zi.parent.Show()
		} else {
			zi.parent.Hide()
		}
	}
	for i := len(zoneItems); i < len(zs); i++ {
		zoneItems = append(zoneItems, addZoneItem(i, zs[i]))
	}
}

func onReady() {
	mu.Lock()
	on, m, warn := active, muted, denied
	text, zs, secs := locText, append([]zone.Zone(nil), zones...), interval
	mu.Unlock()

	menuMu.Lock()
	defer menuMu.Unlock()

	mStatus = systray.AddMenuItemCheckbox(statusTitle(on), "Toggle location monitoring", on)
	mStatus.Click(func() { run(currentActions().ToggleActive) })

	mLocation = systray.AddMenuItem(locationTitle(text), "Last known position")
	mLocation.Disable()

	mEnableLoc = systray.AddMenuItem("Enable Location Services", "Open location privacy settings")
	mEnableLoc.Click(func() { run(currentActions().OpenSettings) })
	if !warn {
		mEnableLoc.Hide()
	}

	mRefresh := systray.AddMenuItem("Refresh Location", "Get a precise fix now")
	mRefresh.Click(func() { run(currentActions().Refresh) })

	mCopy := systray.AddMenuItem("Copy Location", "Copy coordinates to the clipboard")
	mCopy.Click(func() { run(currentActions().CopyLocation) })

	systray.AddSeparator()

	mZones = systray.AddMenuItem("Target Locations", "Places where audio is muted")
	mAdd := mZones.AddSubMenuItem("Add Location...", "Add a target location")
	mAdd.Click(func() { go addZoneDialog() })
	zoneItems = zoneItems[:0]
	for i, z := range zs {
		zoneItems = append(zoneItems, addZoneItem(i, z))
	}

	mInterval = systray.AddMenuItem("Check Interval", "How often the location is checked")
	intervalIts = make([]*systray.MenuItem, 0, len(monitor.Intervals))
	for _, p := range monitor.Intervals {
		seconds := p.Seconds
		item := mInterval.AddSubMenuItemCheckbox(p.Label, p.Label, seconds == secs)
		item.Click(func() { go pickInterval(seconds) })
		intervalIts = append(intervalIts, item)
	}

	mMute = systray.AddMenuItem(muteTitle(m), "Toggle system audio mute")
	mMute.Click(func() { run(currentActions().ToggleMute) })

	systray.AddSeparator()

	mLogin := systray.AddMenuItemCheckbox("Start on Login", "Launch muteonloc when you log in", loginOn)
	mLogin.Click(func() {
		go func() {
			if toggleLogin(!mLogin.Checked()) {
				mLogin.Check()
			} else {
				mLogin.Uncheck()
			}
		}()
	})

	mQuit := systray.AddMenuItem("Quit", "Quit muteonloc")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()

	ready = true
	updateIcon(on, m, warn)
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
