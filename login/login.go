// Package login registers the app to start when the user logs in.
package login

import "os"

// envKeys are carried into the login session's environment.
var envKeys = []string{"GOOGLE_MAPS_API_KEY", "MUTEONLOC_GEOCODER", "MUTEONLOC_CONFIG", "MUTEONLOC_LOG_PATH"}

func carriedEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}
