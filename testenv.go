package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"muteonloc/audio"
	"muteonloc/geo"
	"muteonloc/geocode"
	"muteonloc/location"
	"muteonloc/log"
	"muteonloc/monitor"
)

// runTestMode drives the controller from stdin with fake devices. Commands:
//
//	POS <lat> <lon>          position returned by the next fix
//	GEO <lat> <lon> <addr>   coordinate the geocoder returns for addr
//	ADD <radius> <addr>      add a zone
//	DELETE <index>           delete a zone
//	ACTIVATE | DEACTIVATE
//	CHECK                    take a fix now
//	MUTE                     toggle mute manually
//	EXTERNAL <0|1>           change the system mute behind the app's back
//	SYNC                     reconcile with the system mute state
//	WAIT_MUTED | WAIT_UNMUTED
//	SLEEP <ms>
//	QUIT
func runTestMode(settingsPath string) int {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	loc := location.NewFake(orb.Point{})
	gc := geocode.NewFake(nil)
	mixer := audio.NewFakeMixer(false)

	ctrl, err := monitor.New(monitor.Config{
		Location:     loc,
		Geocoder:     gc,
		Mixer:        mixer,
		SettingsPath: settingsPath,
		RetryInitial: 50 * time.Millisecond,
		RetryMax:     200 * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	code := driveTestMode(bufio.NewScanner(os.Stdin), ctrl, loc, gc, mixer)
	cancel()
	<-done
	return code
}

func driveTestMode(sc *bufio.Scanner, ctrl *monitor.Controller, loc *location.Fake, gc *geocode.Fake, mixer *audio.FakeMixer) int {
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch strings.ToUpper(fields[0]) {
		case "POS":
			var p orb.Point
			if p, err = parsePoint(fields[1:]); err == nil {
				loc.Set(p)
			}
		case "GEO":
			var p orb.Point
			if len(fields) < 4 {
				err = fmt.Errorf("usage: GEO <lat> <lon> <address>")
			} else if p, err = parsePoint(fields[1:3]); err == nil {
				gc.Set(strings.Join(fields[3:], " "), p)
			}
		case "ADD":
			if len(fields) < 3 {
				err = fmt.Errorf("usage: ADD <radius> <address>")
			} else {
				err = ctrl.AddZone(strings.Join(fields[2:], " "), fields[1])
			}
		case "DELETE":
			var i int
			if len(fields) < 2 {
				err = fmt.Errorf("usage: DELETE <index>")
			} else if i, err = strconv.Atoi(fields[1]); err == nil {
				err = ctrl.DeleteZone(i)
			}
		case "ACTIVATE":
			err = ctrl.Activate()
		case "DEACTIVATE":
			err = ctrl.Deactivate()
		case "CHECK":
			err = ctrl.CheckNow()
		case "MUTE":
			err = ctrl.ToggleMute()
		case "EXTERNAL":
			mixer.SetExternal(len(fields) > 1 && fields[1] == "1")
		case "SYNC":
			err = ctrl.Reconcile()
		case "WAIT_MUTED":
			err = waitMuted(ctrl, true)
		case "WAIT_UNMUTED":
			err = waitMuted(ctrl, false)
		case "SLEEP":
			if len(fields) > 1 {
				if ms, e := strconv.Atoi(fields[1]); e == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		case "QUIT":
			return 0
		default:
			err = fmt.Errorf("unknown command %q", fields[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", sc.Text(), err)
			return 1
		}
	}
	return 0
}

func parsePoint(fields []string) (orb.Point, error) {
	if len(fields) < 2 {
		return orb.Point{}, fmt.Errorf("want <lat> <lon>")
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return orb.Point{}, err
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return orb.Point{}, err
	}
	p := geo.Point(lat, lon)
	if !geo.Valid(p) {
		return orb.Point{}, fmt.Errorf("coordinate out of range: %s", fields[:2])
	}
	return p, nil
}

func waitMuted(ctrl *monitor.Controller, want bool) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := ctrl.Snapshot()
		if err != nil {
			return err
		}
		if snap.Muted == want {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for muted=%t", want)
}
