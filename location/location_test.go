package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muteonloc/geo"
)

func ipServer(t *testing.T, status int, body string) *IPProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	p := NewIPProvider()
	p.URL = srv.URL
	return p
}

func TestIPProviderSuccess(t *testing.T) {
	p := ipServer(t, http.StatusOK, `{"status":"success","lat":52.52,"lon":13.405}`)

	pt, err := p.Locate(context.Background(), Best)
	require.NoError(t, err)
	assert.Equal(t, 52.52, pt.Lat())
	assert.Equal(t, 13.405, pt.Lon())
	assert.True(t, p.Authorization().Authorized())
}

func TestIPProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api fail", http.StatusOK, `{"status":"fail","message":"private range"}`},
		{"http error", http.StatusServiceUnavailable, `busy`},
		{"bad json", http.StatusOK, `{`},
		{"bad coordinate", http.StatusOK, `{"status":"success","lat":123,"lon":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ipServer(t, tt.status, tt.body)
			_, err := p.Locate(context.Background(), HundredMeters)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrPermissionDenied)
		})
	}
}

func TestIPProviderCancelled(t *testing.T) {
	p := ipServer(t, http.StatusOK, `{"status":"success","lat":1,"lon":1}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Locate(ctx, HundredMeters)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusTracker(t *testing.T) {
	var st statusTracker
	assert.Equal(t, NotDetermined, st.get())

	st.observe(errors.New("timeout"))
	assert.Equal(t, NotDetermined, st.get(), "unrelated errors say nothing about permission")

	st.observe(fmt.Errorf("wrapped: %w", ErrPermissionDenied))
	assert.Equal(t, Denied, st.get())

	st.observe(nil)
	assert.Equal(t, AuthorizedAlways, st.get())
}

func TestStatusAuthorized(t *testing.T) {
	assert.True(t, AuthorizedAlways.Authorized())
	assert.True(t, AuthorizedWhenInUse.Authorized())
	assert.False(t, NotDetermined.Authorized())
	assert.False(t, Denied.Authorized())
	assert.False(t, Restricted.Authorized())
	assert.Equal(t, "Denied", Denied.String())
}

func TestFake(t *testing.T) {
	f := NewFake(geo.Point(1, 2))
	ctx := context.Background()

	pt, err := f.Locate(ctx, HundredMeters)
	require.NoError(t, err)
	assert.Equal(t, geo.Point(1, 2), pt)

	f.Fail(ErrPermissionDenied)
	_, err = f.Locate(ctx, Best)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	f.Set(geo.Point(3, 4))
	pt, err = f.Locate(ctx, HundredMeters)
	require.NoError(t, err)
	assert.Equal(t, geo.Point(3, 4), pt)
	assert.Equal(t, []Accuracy{HundredMeters, Best, HundredMeters}, f.Calls())

	require.NoError(t, f.Close())
	assert.True(t, f.Closed())
}
