// Package monitor runs the location polling loop and drives the mute engine.
//
// A Controller owns every piece of mutable state: the zone list, resolved
// coordinates, the last position and the engine. All of it is touched only
// on the controller's event loop. Timer firings, location fixes, geocoding
// results and user actions are posted to the loop as events. Results of
// asynchronous work carry a tag so the loop can drop ones that no longer
// apply.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/paulmach/orb"

	"muteonloc/audio"
	"muteonloc/engine"
	"muteonloc/geocode"
	"muteonloc/location"
	"muteonloc/log"
	"muteonloc/settings"
	"muteonloc/zone"
)

var (
	ErrIntervalTooShort = fmt.Errorf("check interval must be at least %d seconds", settings.MinInterval)
	ErrNoSuchZone       = errors.New("no such zone")
	ErrStopped          = errors.New("monitor stopped")
)

const (
	DefaultSyncInterval   = 10 * time.Second
	DefaultRefreshTimeout = 10 * time.Second
	DefaultFixTimeout     = time.Minute
	DefaultGeocodeTimeout = 15 * time.Second
	DefaultRetryInitial   = 30 * time.Second
	DefaultRetryMax       = 30 * time.Minute
)

type Preset struct {
	Label   string
	Seconds int
}

// Intervals are the check intervals offered in menus.
var Intervals = []Preset{
	{"1 Min", 60},
	{"2 Min", 120},
	{"5 Min", 300},
	{"10 Min", 600},
	{"15 Min", 900},
	{"30 Min", 1800},
	{"1 Hour", 3600},
}

func IntervalLabel(seconds int) string {
	for _, p := range Intervals {
		if p.Seconds == seconds {
			return p.Label
		}
	}
	if seconds%60 == 0 {
		return fmt.Sprintf("%d Min", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Location text shown while no coordinate is displayed.
const (
	TextUnknown    = "Unknown"
	TextUpdating   = "Updating..."
	TextRefreshing = "Refreshing..."
	TextDenied     = "Access Denied"
	TextError      = "Error"
)

func FormatPosition(p orb.Point) string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat(), p.Lon())
}

type Config struct {
	Location     location.Provider
	Geocoder     geocode.Geocoder
	Mixer        audio.Mixer
	Presenter    Presenter
	SettingsPath string // empty disables persistence

	SyncInterval   time.Duration
	RefreshTimeout time.Duration
	FixTimeout     time.Duration
	GeocodeTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

func (c *Config) setDefaults() {
	if c.Presenter == nil {
		c.Presenter = NopPresenter{}
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.RefreshTimeout <= 0 {
		c.RefreshTimeout = DefaultRefreshTimeout
	}
	if c.FixTimeout <= 0 {
		c.FixTimeout = DefaultFixTimeout
	}
	if c.GeocodeTimeout <= 0 {
		c.GeocodeTimeout = DefaultGeocodeTimeout
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = DefaultRetryInitial
	}
	if c.RetryMax <= 0 {
		c.RetryMax = DefaultRetryMax
	}
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Active        bool
	Muted         bool
	InsideAnyZone bool
	Phase         engine.Phase
	Position      orb.Point
	HasPosition   bool
	Zones         []zone.Zone
	Resolved      int // zones with a known coordinate
	Pending       int // geocode requests in flight
	Interval      int
}

type fixResult struct {
	seq    uint64
	manual bool
	pos    orb.Point
	err    error
}

type geocodeResult struct {
	address string
	pos     orb.Point
	err     error
}

type retry struct {
	bo    *backoff.ExponentialBackOff
	at    time.Time
	timer *time.Timer
}

type Controller struct {
	cfg    Config
	pres   Presenter
	events chan func()
	done   chan struct{}
	ctx    context.Context
	wg     sync.WaitGroup

	zones    []zone.Zone
	index    *zone.Index
	engine   *engine.Engine
	interval int
	pos      orb.Point
	hasPos   bool

	fixSeq    uint64
	fixCancel context.CancelFunc

	pending map[string]bool
	retries map[string]*retry

	pollGen   uint64
	pollTimer *time.Timer
	syncTimer *time.Timer
}

// New loads the settings file, reads the current system mute state and
// writes the settings back in the current format. Run starts the loop.
func New(cfg Config) (*Controller, error) {
	if cfg.Location == nil || cfg.Geocoder == nil || cfg.Mixer == nil {
		return nil, errors.New("monitor: location, geocoder and mixer are required")
	}
	cfg.setDefaults()

	f := settings.File{Settings: settings.Defaults()}
	if cfg.SettingsPath != "" {
		var err error
		f, err = settings.Load(cfg.SettingsPath)
		if err != nil {
			log.Warnf("settings: %v (using defaults)", err)
		}
	}

	muted, err := cfg.Mixer.Muted()
	if err != nil {
		log.Warnf("read mute state: %v", err)
	}

	c := &Controller{
		cfg:      cfg,
		pres:     cfg.Presenter,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		zones:    f.Locations,
		index:    zone.NewIndex(),
		engine:   engine.New(cfg.Mixer, muted),
		interval: f.Settings.CheckInterval,
		pending:  make(map[string]bool),
		retries:  make(map[string]*retry),
	}
	c.engine.SetActive(f.Settings.IsActive)
	c.save()
	return c, nil
}

// Run processes events until ctx is cancelled. Timers are stopped and
// in-flight requests cancelled before it returns.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.ctx = ctx

	c.start()
	for {
		select {
		case <-ctx.Done():
			c.stop()
			close(c.done)
			cancel()
			c.wg.Wait()
			return nil
		case fn := <-c.events:
			fn()
		}
	}
}

// post queues fn on the loop. It is dropped once the loop has stopped.
func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

// do runs fn on the loop and waits for it.
func (c *Controller) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(finished) }:
	case <-c.done:
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

func (c *Controller) start() {
	active := c.engine.Active()
	c.pres.Status(active)
	c.pres.Zones(c.zoneList())
	c.pres.Interval(c.interval)
	c.pres.MuteState(c.engine.Muted())
	c.pres.Location(TextUnknown)
	c.pres.PermissionHint(false)

	log.SessionStart(len(c.zones), c.interval, active)

	for _, z := range c.zones {
		c.requestGeocode(z.Address)
	}
	c.armSync()

	if active {
		c.armPoll()
		c.locate(location.HundredMeters, false)
	} else if c.cfg.Location.Authorization() == location.NotDetermined {
		c.requestAuthorization()
	}
}

func (c *Controller) stop() {
	c.stopPoll()
	if c.syncTimer != nil {
		c.syncTimer.Stop()
		c.syncTimer = nil
	}
	if c.fixCancel != nil {
		c.fixCancel()
		c.fixCancel = nil
	}
	for addr := range c.retries {
		c.dropRetry(addr)
	}
	log.SessionEnd(len(c.zones), c.engine.Muted())
}

func (c *Controller) zoneList() []zone.Zone {
	return append([]zone.Zone(nil), c.zones...)
}

func (c *Controller) hasZone(address string) bool {
	for _, z := range c.zones {
		if z.Address == address {
			return true
		}
	}
	return false
}

func (c *Controller) save() {
	if c.cfg.SettingsPath == "" {
		return
	}
	f := settings.File{
		Locations: c.zones,
		Settings: settings.Settings{
			CheckInterval: c.interval,
			IsActive:      c.engine.Active(),
		},
	}
	if err := settings.Save(c.cfg.SettingsPath, f); err != nil {
		log.Errorf("save settings: %v", err)
	}
}
