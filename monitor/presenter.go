package monitor

import "muteonloc/zone"

// Presenter receives display updates from the controller. Methods are
// called on the controller's loop and must not block or call back into the
// controller synchronously.
type Presenter interface {
	Status(active bool)
	Location(text string)
	PermissionHint(show bool)
	MuteState(muted bool)
	Zones(zones []zone.Zone)
	Interval(seconds int)
	Notify(title, message string)
	Alert(title, message string)
}

type NopPresenter struct{}

func (NopPresenter) Status(bool)           {}
func (NopPresenter) Location(string)       {}
func (NopPresenter) PermissionHint(bool)   {}
func (NopPresenter) MuteState(bool)        {}
func (NopPresenter) Zones([]zone.Zone)     {}
func (NopPresenter) Interval(int)          {}
func (NopPresenter) Notify(string, string) {}
func (NopPresenter) Alert(string, string)  {}

// Presenters fans every update out to each element.
type Presenters []Presenter

func (ps Presenters) Status(active bool) {
	for _, p := range ps {
		p.Status(active)
	}
}

func (ps Presenters) Location(text string) {
	for _, p := range ps {
		p.Location(text)
	}
}

func (ps Presenters) PermissionHint(show bool) {
	for _, p := range ps {
		p.PermissionHint(show)
	}
}

func (ps Presenters) MuteState(muted bool) {
	for _, p := range ps {
		p.MuteState(muted)
	}
}

func (ps Presenters) Zones(zones []zone.Zone) {
	for _, p := range ps {
		p.Zones(zones)
	}
}

func (ps Presenters) Interval(seconds int) {
	for _, p := range ps {
		p.Interval(seconds)
	}
}

func (ps Presenters) Notify(title, message string) {
	for _, p := range ps {
		p.Notify(title, message)
	}
}

func (ps Presenters) Alert(title, message string) {
	for _, p := range ps {
		p.Alert(title, message)
	}
}
