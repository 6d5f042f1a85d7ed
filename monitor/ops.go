package monitor

import (
	"muteonloc/location"
	"muteonloc/log"
	"muteonloc/settings"
	"muteonloc/zone"
)

func (c *Controller) Activate() error {
	return c.do(func() { c.setActive(true) })
}

func (c *Controller) Deactivate() error {
	return c.do(func() { c.setActive(false) })
}

func (c *Controller) ToggleActive() error {
	return c.do(func() { c.setActive(!c.engine.Active()) })
}

// ToggleMute flips the mute state directly. The next zone check may
// reverse it.
func (c *Controller) ToggleMute() error {
	var err error
	doErr := c.do(func() {
		act, e := c.engine.Toggle()
		if e != nil {
			log.Errorf("manual %s: %v", act, e)
			err = e
			return
		}
		log.MuteChange(act.String(), "manual")
		c.pres.MuteState(c.engine.Muted())
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (c *Controller) AddZone(address, radius string) error {
	z, err := zone.New(address, radius)
	if err != nil {
		return err
	}
	return c.do(func() {
		c.zones = append(c.zones, z)
		c.save()
		c.pres.Zones(c.zoneList())
		log.Infof("zone added: %s", z)
		c.requestGeocode(z.Address)
	})
}

// EditZone replaces the zone at index i. A changed address drops the old
// coordinate and starts resolving the new one.
func (c *Controller) EditZone(i int, address, radius string) error {
	z, err := zone.New(address, radius)
	if err != nil {
		return err
	}
	var opErr error
	if err := c.do(func() {
		if i < 0 || i >= len(c.zones) {
			opErr = ErrNoSuchZone
			return
		}
		old := c.zones[i]
		c.zones[i] = z
		if old.Address != z.Address {
			c.forget(old.Address)
		}
		c.save()
		c.pres.Zones(c.zoneList())
		log.Infof("zone edited: %s -> %s", old, z)
		if _, ok := c.index.Get(z.Address); ok {
			c.check()
		} else {
			c.requestGeocode(z.Address)
		}
	}); err != nil {
		return err
	}
	return opErr
}

func (c *Controller) DeleteZone(i int) error {
	var opErr error
	if err := c.do(func() {
		if i < 0 || i >= len(c.zones) {
			opErr = ErrNoSuchZone
			return
		}
		old := c.zones[i]
		c.zones = append(c.zones[:i:i], c.zones[i+1:]...)
		c.forget(old.Address)
		c.save()
		c.pres.Zones(c.zoneList())
		log.Infof("zone deleted: %s", old)
		c.check()
	}); err != nil {
		return err
	}
	return opErr
}

func (c *Controller) SetInterval(seconds int) error {
	if seconds < settings.MinInterval {
		return ErrIntervalTooShort
	}
	return c.do(func() { c.setInterval(seconds) })
}

// Refresh requests a best-accuracy fix. When location access is known to be
// refused it alerts instead.
func (c *Controller) Refresh() error {
	return c.do(func() {
		st := c.cfg.Location.Authorization()
		if st == location.Denied || st == location.Restricted {
			c.pres.PermissionHint(true)
			c.pres.Location(TextDenied)
			c.pres.Alert("Location Access Required",
				"Please enable location services to refresh location. Authorization status: "+st.String())
			return
		}
		c.locate(location.Best, true)
	})
}

// CheckNow runs a scheduled-accuracy fix immediately.
func (c *Controller) CheckNow() error {
	return c.do(func() { c.locate(location.HundredMeters, false) })
}

// Reconcile reads the system mute state now instead of waiting for the
// sync timer.
func (c *Controller) Reconcile() error {
	return c.do(c.reconcile)
}

func (c *Controller) Snapshot() (Snapshot, error) {
	var s Snapshot
	err := c.do(func() {
		st := c.engine.State()
		s = Snapshot{
			Active:        st.Active,
			Muted:         st.Muted,
			InsideAnyZone: st.InsideAnyZone,
			Phase:         c.engine.Phase(),
			Position:      c.pos,
			HasPosition:   c.hasPos,
			Zones:         c.zoneList(),
			Interval:      c.interval,
			Pending:       len(c.pending),
		}
		for _, z := range c.zones {
			if _, ok := c.index.Get(z.Address); ok {
				s.Resolved++
			}
		}
	})
	return s, err
}
