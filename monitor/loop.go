package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"muteonloc/engine"
	"muteonloc/location"
	"muteonloc/log"
	"muteonloc/zone"
)

// Everything in this file runs on the event loop.

func (c *Controller) armPoll() {
	c.stopPoll()
	c.pollGen++
	gen := c.pollGen
	d := time.Duration(c.interval) * time.Second
	c.pollTimer = time.AfterFunc(d, func() {
		c.post(func() { c.onPoll(gen) })
	})
}

func (c *Controller) stopPoll() {
	if c.pollTimer != nil {
		c.pollTimer.Stop()
		c.pollTimer = nil
	}
	// invalidates a firing that is already queued
	c.pollGen++
}

func (c *Controller) onPoll(gen uint64) {
	if gen != c.pollGen || !c.engine.Active() {
		return
	}
	c.locate(location.HundredMeters, false)
	c.armPoll()
}

func (c *Controller) armSync() {
	c.syncTimer = time.AfterFunc(c.cfg.SyncInterval, func() {
		c.post(c.onSync)
	})
}

func (c *Controller) onSync() {
	if c.syncTimer == nil {
		return // stopped
	}
	c.reconcile()
	c.armSync()
}

func (c *Controller) reconcile() {
	muted, err := c.cfg.Mixer.Muted()
	if err != nil {
		log.Warnf("mute sync: %v", err)
		return
	}
	if c.engine.Reconcile(muted) {
		log.MuteSync(muted)
		c.pres.MuteState(muted)
	}
}

// locate starts a fix. A newer request supersedes one still in flight.
func (c *Controller) locate(acc location.Accuracy, manual bool) {
	if c.fixCancel != nil {
		c.fixCancel()
	}
	c.fixSeq++
	seq := c.fixSeq

	timeout := c.cfg.FixTimeout
	text := TextUpdating
	if manual {
		timeout = c.cfg.RefreshTimeout
		text = TextRefreshing
	}
	ctx, cancel := context.WithTimeout(c.ctx, timeout)
	c.fixCancel = cancel
	c.pres.Location(text)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		pos, err := c.cfg.Location.Locate(ctx, acc)
		c.post(func() { c.onFix(fixResult{seq: seq, manual: manual, pos: pos, err: err}) })
	}()
}

func (c *Controller) onFix(r fixResult) {
	if r.seq != c.fixSeq {
		return
	}
	c.fixCancel = nil

	if r.err != nil {
		log.LocationError(r.err, r.manual)
		if errors.Is(r.err, location.ErrPermissionDenied) {
			c.pres.Location(TextDenied)
			c.pres.PermissionHint(true)
			if r.manual {
				c.pres.Alert("Location Access Required",
					"Please enable location services to refresh location. Authorization status: "+c.cfg.Location.Authorization().String())
			}
			return
		}
		c.pres.Location(TextError)
		return
	}

	c.pos, c.hasPos = r.pos, true
	c.pres.PermissionHint(false)
	c.pres.Location(FormatPosition(r.pos))
	c.check()
}

func (c *Controller) requestAuthorization() {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.FixTimeout)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		err := c.cfg.Location.RequestAuthorization(ctx)
		c.post(func() {
			if errors.Is(err, location.ErrPermissionDenied) {
				c.pres.Location(TextDenied)
				c.pres.PermissionHint(true)
				return
			}
			if err != nil {
				log.Warnf("location authorization: %v", err)
			}
			c.pres.PermissionHint(!c.cfg.Location.Authorization().Authorized())
		})
	}()
}

// check evaluates the last position against the zones and lets the engine
// act on the result.
func (c *Controller) check() {
	if !c.hasPos {
		return
	}
	if len(c.zones) == 0 {
		log.Info("no zones configured, skipping zone check")
		return
	}

	res := zone.Evaluate(c.pos, c.zones, c.index)
	for _, addr := range res.Missing {
		c.requestGeocode(addr)
	}
	name, dist := "", res.Distance
	if res.Zone != nil {
		name = res.Zone.Address
	} else if z, d, ok := zone.Nearest(c.pos, c.zones, c.index); ok {
		// outside every zone: log the closest one
		name, dist = z.Address, d
	}
	log.ZoneCheck(c.pos.Lat(), c.pos.Lon(), res.Inside, name, dist, len(res.Missing), c.engine.Active())

	act, err := c.engine.Evaluate(res.Inside)
	if err != nil {
		log.Errorf("auto %s: %v", act, err)
		return
	}
	switch act {
	case engine.Mute:
		log.MuteChange(act.String(), "entered "+name)
		c.pres.MuteState(true)
		c.pres.Notify("Auto Muted", "Muted - entered "+name)
	case engine.Unmute:
		log.MuteChange(act.String(), "left target zone")
		c.pres.MuteState(false)
		c.pres.Notify("Auto Unmuted", "Unmuted - left target zone")
	}
}

// requestGeocode resolves address unless a request is already in flight,
// the coordinate is known, or the address is waiting out a backoff.
func (c *Controller) requestGeocode(address string) {
	if c.pending[address] {
		return
	}
	if _, ok := c.index.Get(address); ok {
		return
	}
	if r := c.retries[address]; r != nil && time.Now().Before(r.at) {
		return
	}
	c.pending[address] = true

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.GeocodeTimeout)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		pos, err := c.cfg.Geocoder.Resolve(ctx, address)
		c.post(func() { c.onGeocode(geocodeResult{address: address, pos: pos, err: err}) })
	}()
}

func (c *Controller) onGeocode(r geocodeResult) {
	delete(c.pending, r.address)
	if !c.hasZone(r.address) {
		log.Infof("discarding geocode result for removed address %q", r.address)
		return
	}

	if r.err != nil {
		d := c.scheduleRetry(r.address)
		log.GeocodeFailed(r.address, r.err, d)
		return
	}

	c.dropRetry(r.address)
	c.index.Set(r.address, r.pos)
	log.Geocoded(r.address, r.pos.Lat(), r.pos.Lon())
	c.check()
}

func (c *Controller) scheduleRetry(address string) time.Duration {
	r := c.retries[address]
	if r == nil {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = c.cfg.RetryInitial
		bo.MaxInterval = c.cfg.RetryMax
		bo.Reset()
		r = &retry{bo: bo}
		c.retries[address] = r
	}
	d := r.bo.NextBackOff()
	r.at = time.Now().Add(d)
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(d, func() {
		c.post(func() {
			if c.hasZone(address) {
				c.requestGeocode(address)
			}
		})
	})
	return d
}

func (c *Controller) dropRetry(address string) {
	if r := c.retries[address]; r != nil {
		if r.timer != nil {
			r.timer.Stop()
		}
		delete(c.retries, address)
	}
}

// forget drops cached state for an address no zone uses any more.
func (c *Controller) forget(address string) {
	if c.hasZone(address) {
		return
	}
	c.index.Remove(address)
	c.dropRetry(address)
}

func (c *Controller) setActive(on bool) {
	if c.engine.Active() == on {
		return
	}
	c.engine.SetActive(on)
	c.save()
	c.pres.Status(on)
	log.Infof("monitoring active=%t", on)
	if on {
		c.pres.Notify("Status Changed", "Monitoring is now ACTIVE")
		c.armPoll()
		c.locate(location.HundredMeters, false)
		return
	}
	c.stopPoll()
	c.pres.Notify("Status Changed", "Monitoring is now INACTIVE")
}

func (c *Controller) setInterval(seconds int) {
	if seconds == c.interval {
		return
	}
	c.interval = seconds
	c.save()
	c.pres.Interval(seconds)
	c.pres.Notify("Check Interval Changed", fmt.Sprintf("Location will be checked every %s", IntervalLabel(seconds)))
	if c.engine.Active() {
		c.armPoll()
	}
}
