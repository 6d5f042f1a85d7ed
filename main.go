package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"muteonloc/audio"
	"muteonloc/clipboard"
	"muteonloc/doctor"
	"muteonloc/geocode"
	"muteonloc/hotkey"
	"muteonloc/instance"
	"muteonloc/location"
	"muteonloc/log"
	"muteonloc/login"
	"muteonloc/monitor"
	"muteonloc/notify"
	"muteonloc/settings"
	"muteonloc/tray"
)

var version = "dev"

const hotkeyDebounce = 300 * time.Millisecond

func run() {
	configFlag := flag.String("config", "", "settings file path (default: "+settings.FileName+" in the OS config dir)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tuiFlag := flag.Bool("tui", term.IsTerminal(int(os.Stdout.Fd())), "Run with terminal UI")
	ipgeoFlag := flag.Bool("ipgeo", false, "Use IP geolocation instead of the system location service")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	hotkeyFlag := flag.Bool("hotkey", true, "Toggle mute with "+hotkey.Combo)
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven, fake devices)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("muteonloc %s\n", version)
		os.Exit(0)
	}

	settingsPath, err := settings.ResolvePath(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve settings path: %v\n", err)
		os.Exit(1)
	}
	configDir := filepath.Dir(settingsPath)
	loadEnv(configDir)

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog()

	if *testFlag {
		os.Exit(runTestMode(settingsPath))
	}

	loc := newLocation(*ipgeoFlag)
	defer loc.Close()
	gc := geocode.FromEnv()
	mixer, err := audio.NewMixer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: audio mute control unavailable: %v\n", err)
		os.Exit(1)
	}
	defer mixer.Close()

	if *doctorFlag {
		cfg := doctor.Config{
			Location: loc,
			Geocoder: gc,
			Mixer:    mixer,
			Copy:     clipboard.Copy,
			Read:     clipboard.Read,
		}
		if *hotkeyFlag {
			cfg.Hotkey = hotkey.New()
			cfg.Diagnose = hotkey.Diagnose
		}
		os.Exit(doctor.Run(cfg))
	}

	lock, err := instance.Acquire(configDir)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		fmt.Println("muteonloc is already running.")
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer lock.Release()

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.Infof("muteonloc %s, settings %s, geocoder %s", version, settingsPath, gc.Name())

	presenters := monitor.Presenters{tray.Presenter{}}
	if n, err := notify.New(); err != nil {
		log.Warnf("notifications unavailable: %v", err)
	} else {
		defer n.Close()
		presenters = append(presenters, notifyPresenter{n: n})
	}

	// the program needs the actions, which need the controller
	tp := &tuiPresenter{}
	if *tuiFlag {
		presenters = append(presenters, tp)
	}

	ctrl, err := monitor.New(monitor.Config{
		Location:     loc,
		Geocoder:     gc,
		Mixer:        mixer,
		Presenter:    presenters,
		SettingsPath: settingsPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := instance.SignalContext(context.Background())
	defer stop()

	acts := actions(ctrl, presenters)
	tray.SetActions(acts)
	tray.SetLogin(login.Enabled())
	trayQuit := tray.Init()

	var prog *tea.Program
	if *tuiFlag {
		prog = NewTUIProgram(acts)
		tp.p = prog
		go func() {
			if _, err := prog.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
		}()
	}

	if *hotkeyFlag {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			log.Errorf("hotkey register error: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: %s unavailable: %v\n", hotkey.Combo, err)
		} else {
			defer hk.Unregister()
			go hotkey.Watch(ctx, hk, hotkeyDebounce, func() {
				if err := ctrl.ToggleMute(); err != nil {
					log.Warnf("hotkey mute toggle: %v", err)
				}
			})
		}
	}

	go func() {
		select {
		case <-trayQuit:
			stop()
		case <-ctx.Done():
		}
	}()

	if err := ctrl.Run(ctx); err != nil {
		log.Errorf("monitor: %v", err)
	}
	tray.Quit()
	if prog != nil {
		prog.Quit()
	}
}

// loadEnv reads .env from the config dir. Variables already set win.
func loadEnv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, err)
	}
}

func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func newLocation(ipgeo bool) location.Provider {
	if ipgeo {
		return location.NewIPProvider()
	}
	p, err := location.NewSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: system location unavailable (%v), using IP geolocation\n", err)
		return location.NewIPProvider()
	}
	return p
}

// actions binds menu and key handlers to the controller. Actions without a
// caller to report to log their errors.
func actions(ctrl *monitor.Controller, pres monitor.Presenter) tray.Actions {
	warn := func(what string, err error) {
		if err != nil {
			log.Warnf("%s: %v", what, err)
		}
	}
	return tray.Actions{
		ToggleActive: func() { warn("toggle active", ctrl.ToggleActive()) },
		ToggleMute:   func() { warn("toggle mute", ctrl.ToggleMute()) },
		Refresh:      func() { warn("refresh", ctrl.Refresh()) },
		CopyLocation: func() {
			snap, err := ctrl.Snapshot()
			if err != nil {
				return
			}
			if !snap.HasPosition {
				pres.Alert("Copy Location", "No location yet. Try Refresh Location first.")
				return
			}
			if err := clipboard.CopyLocation(snap.Position); err != nil {
				pres.Alert("Copy Location", err.Error())
				return
			}
			pres.Notify("Location Copied", clipboard.Location(snap.Position))
		},
		OpenSettings: func() { warn("open location settings", location.OpenSettings()) },
		AddZone:      ctrl.AddZone,
		EditZone:     ctrl.EditZone,
		DeleteZone:   ctrl.DeleteZone,
		SetInterval:  ctrl.SetInterval,
		Login: func(on bool) error {
			if on {
				return login.Enable()
			}
			return login.Disable()
		},
	}
}
