//go:build !darwin

package tray

import "muteonloc/zone"

func Init() <-chan struct{} { return make(chan struct{}) }

func updateStatus(bool)           {}
func updateLocation(string)       {}
func updatePermission(bool)       {}
func updateMute(bool)             {}
func updateIcon(bool, bool, bool) {}
func updateInterval(int)          {}
func refreshZones([]zone.Zone)    {}
func showAlert(string, string)    {}

func prompt(string, string, string) (string, bool) { return "", false }
