//go:build linux

package location

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/paulmach/orb"

	"muteonloc/geo"
)

const (
	geoclueDest    = "org.freedesktop.GeoClue2"
	geoclueManager = "/org/freedesktop/GeoClue2/Manager"
	clientIface    = "org.freedesktop.GeoClue2.Client"
	locationIface  = "org.freedesktop.GeoClue2.Location"

	// GClueAccuracyLevel values
	accuracyStreet = 6
	accuracyExact  = 8
)

// GeoClue requests fixes from the GeoClue2 service on the system bus.
type GeoClue struct {
	DesktopID string

	mu   sync.Mutex
	conn *dbus.Conn
	st   statusTracker
}

func NewSystem() (Provider, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("geoclue: system bus: %w", err)
	}
	return &GeoClue{DesktopID: "muteonloc", conn: conn}, nil
}

func (g *GeoClue) Authorization() Status { return g.st.get() }

// RequestAuthorization triggers the desktop's location agent by asking for
// a fix.
func (g *GeoClue) RequestAuthorization(ctx context.Context) error {
	_, err := g.Locate(ctx, HundredMeters)
	return err
}

func (g *GeoClue) Locate(ctx context.Context, acc Accuracy) (orb.Point, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	pt, err := g.locate(ctx, acc)
	g.st.observe(err)
	return pt, err
}

func (g *GeoClue) locate(ctx context.Context, acc Accuracy) (orb.Point, error) {
	var clientPath dbus.ObjectPath
	mgr := g.conn.Object(geoclueDest, geoclueManager)
	if err := mgr.CallWithContext(ctx, "org.freedesktop.GeoClue2.Manager.GetClient", 0).Store(&clientPath); err != nil {
		return orb.Point{}, mapDBusErr("get client", err)
	}
	client := g.conn.Object(geoclueDest, clientPath)

	level := uint32(accuracyStreet)
	if acc == Best {
		level = accuracyExact
	}
	if err := client.SetProperty(clientIface+".DesktopId", dbus.MakeVariant(g.DesktopID)); err != nil {
		return orb.Point{}, mapDBusErr("set desktop id", err)
	}
	if err := client.SetProperty(clientIface+".RequestedAccuracyLevel", dbus.MakeVariant(level)); err != nil {
		return orb.Point{}, mapDBusErr("set accuracy", err)
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(clientPath),
		dbus.WithMatchInterface(clientIface),
		dbus.WithMatchMember("LocationUpdated"),
	}
	if err := g.conn.AddMatchSignal(match...); err != nil {
		return orb.Point{}, fmt.Errorf("geoclue: add match: %w", err)
	}
	defer g.conn.RemoveMatchSignal(match...)

	signals := make(chan *dbus.Signal, 4)
	g.conn.Signal(signals)
	defer g.conn.RemoveSignal(signals)

	if err := client.CallWithContext(ctx, clientIface+".Start", 0).Err; err != nil {
		return orb.Point{}, mapDBusErr("start", err)
	}
	defer client.Call(clientIface+".Stop", 0)

	for {
		select {
		case <-ctx.Done():
			return orb.Point{}, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return orb.Point{}, fmt.Errorf("geoclue: bus closed")
			}
			if sig.Path != clientPath || sig.Name != clientIface+".LocationUpdated" || len(sig.Body) < 2 {
				continue
			}
			locPath, ok := sig.Body[1].(dbus.ObjectPath)
			if !ok {
				continue
			}
			return g.readLocation(locPath)
		}
	}
}

func (g *GeoClue) readLocation(path dbus.ObjectPath) (orb.Point, error) {
	loc := g.conn.Object(geoclueDest, path)
	lat, err := loc.GetProperty(locationIface + ".Latitude")
	if err != nil {
		return orb.Point{}, mapDBusErr("latitude", err)
	}
	lon, err := loc.GetProperty(locationIface + ".Longitude")
	if err != nil {
		return orb.Point{}, mapDBusErr("longitude", err)
	}
	la, ok1 := lat.Value().(float64)
	lo, ok2 := lon.Value().(float64)
	if !ok1 || !ok2 {
		return orb.Point{}, fmt.Errorf("geoclue: unexpected coordinate types %s %s", lat.Signature(), lon.Signature())
	}
	return geo.Point(la, lo), nil
}

func (g *GeoClue) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn.Close()
}

func mapDBusErr(op string, err error) error {
	var dErr dbus.Error
	if errors.As(err, &dErr) && strings.HasSuffix(dErr.Name, "AccessDenied") {
		return fmt.Errorf("geoclue %s: %w", op, ErrPermissionDenied)
	}
	return fmt.Errorf("geoclue %s: %w", op, err)
}

// OpenSettings opens the GNOME privacy panel when available.
func OpenSettings() error {
	if path, err := exec.LookPath("gnome-control-center"); err == nil {
		return exec.Command(path, "location").Start()
	}
	return exec.Command("xdg-open", "settings://privacy").Start()
}
