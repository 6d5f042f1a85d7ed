//go:build darwin

package location

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"muteonloc/geo"
)

const settingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_LocationServices"

// CoreLocation shells out to CoreLocationCLI for each fix. The helper
// owns the Location Services permission prompt.
type CoreLocation struct {
	Bin string
	st  statusTracker
}

func NewSystem() (Provider, error) {
	bin, err := exec.LookPath("CoreLocationCLI")
	if err != nil {
		return nil, fmt.Errorf("CoreLocationCLI not found (brew install corelocationcli): %w", err)
	}
	return &CoreLocation{Bin: bin}, nil
}

func (c *CoreLocation) Authorization() Status { return c.st.get() }

// RequestAuthorization runs one fix so macOS shows the permission prompt.
func (c *CoreLocation) RequestAuthorization(ctx context.Context) error {
	_, err := c.Locate(ctx, HundredMeters)
	return err
}

// Locate ignores acc; CoreLocationCLI always asks for the best fix.
func (c *CoreLocation) Locate(ctx context.Context, _ Accuracy) (orb.Point, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Bin, "--format", "%latitude %longitude")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(stderr.String()), "denied") {
			err = ErrPermissionDenied
		} else if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = fmt.Errorf("CoreLocationCLI: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		c.st.observe(err)
		return orb.Point{}, err
	}
	pt, err := parseLatLon(stdout.String())
	c.st.observe(err)
	return pt, err
}

func (c *CoreLocation) Close() error { return nil }

func parseLatLon(s string) (orb.Point, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return orb.Point{}, fmt.Errorf("CoreLocationCLI: unexpected output %q", strings.TrimSpace(s))
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err := errors.Join(err1, err2); err != nil {
		return orb.Point{}, fmt.Errorf("CoreLocationCLI: %w", err)
	}
	return geo.Point(lat, lon), nil
}

func OpenSettings() error {
	return exec.Command("open", settingsURL).Run()
}
