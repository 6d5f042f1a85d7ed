package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muteonloc/geo"
)

func TestNominatimResolve(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[{"lat":"48.8583701","lon":"2.2944813","display_name":"Eiffel Tower"}]`)
	}))
	defer srv.Close()

	n := NewNominatim()
	n.BaseURL = srv.URL
	pt, err := n.Resolve(context.Background(), "Champ de Mars, Paris")
	require.NoError(t, err)
	assert.InDelta(t, 48.8583701, pt.Lat(), 1e-9)
	assert.InDelta(t, 2.2944813, pt.Lon(), 1e-9)
	assert.Equal(t, "Champ de Mars, Paris", gotQuery)
	assert.NotEmpty(t, gotUA)
}

func TestNominatimNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	n := NewNominatim()
	n.BaseURL = srv.URL
	_, err := n.Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewNominatim()
	n.BaseURL = srv.URL
	_, err := n.Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}

func TestGoogleResolve(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, `{"status":"OK","results":[{"formatted_address":"Tokyo","geometry":{"location":{"lat":35.6762,"lng":139.6503}}}]}`)
	}))
	defer srv.Close()

	g := NewGoogle("secret")
	g.BaseURL = srv.URL
	pt, err := g.Resolve(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, geo.Point(35.6762, 139.6503), pt)
	assert.Equal(t, "secret", gotKey)
}

func TestGoogleStatuses(t *testing.T) {
	tests := []struct {
		body     string
		noResult bool
	}{
		{`{"status":"ZERO_RESULTS","results":[]}`, true},
		{`{"status":"REQUEST_DENIED","error_message":"bad key"}`, false},
		{`{"status":"OK","results":[]}`, true},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tt.body)
		}))
		g := NewGoogle("k")
		g.BaseURL = srv.URL
		_, err := g.Resolve(context.Background(), "x")
		srv.Close()
		require.Error(t, err, tt.body)
		if tt.noResult {
			assert.ErrorIs(t, err, ErrNoResult, tt.body)
		} else {
			assert.NotErrorIs(t, err, ErrNoResult, tt.body)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("MUTEONLOC_GEOCODER", "")
	assert.Equal(t, "nominatim", FromEnv().Name())

	t.Setenv("GOOGLE_MAPS_API_KEY", "k")
	assert.Equal(t, "google", FromEnv().Name())

	t.Setenv("MUTEONLOC_GEOCODER", "Nominatim")
	assert.Equal(t, "nominatim", FromEnv().Name())
}

func TestFakeHold(t *testing.T) {
	f := NewFake(map[string]orb.Point{"a": geo.Point(1, 1)})
	f.Hold = true

	done := make(chan error, 1)
	go func() {
		_, err := f.Resolve(context.Background(), "a")
		done <- err
	}()
	f.Release("a")
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.Calls("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Resolve(ctx, "b")
	assert.ErrorIs(t, err, context.Canceled)
}
