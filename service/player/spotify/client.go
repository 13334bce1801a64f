package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/wavetune/wavetune/tracing"
)

const defaultBaseURL = "https://api.spotify.com"

// apiError carries the Web API status so callers can branch on stale-device
// responses.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("spotify api status %v: %s", e.Status, e.Body)
}

func isDeviceGone(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.Status == http.StatusNotFound
}

// device is the playback target resolved from /v1/me/player/devices.
type device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// client wraps the handful of Web API endpoints the actions need. The active
// device is resolved lazily and cached; a 404 on a device-scoped call
// invalidates the cache so the next attempt re-resolves.
type client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	mux    sync.Mutex
	device *device
}

func newClient(tokens TokenSource) *client {
	return &client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		tokens:     tokens,
	}
}

// call performs a Web API request under a client span. A nil out skips body
// decoding; 204 responses are treated as empty successes.
func (c *client) call(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("spotify %s %s", method, path), "CLIENT")
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("spotify request failed: %w", err)
	}
	defer response.Body.Close()
	span.SetStatusFromHTTPCode(response.StatusCode)

	if response.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		err = &apiError{Status: response.StatusCode, Body: string(body)}
		return err
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.NewDecoder(response.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed to decode spotify response: %w", err)
		return err
	}
	return nil
}

// activeDevice returns the cached playback device, resolving it on first use.
func (c *client) activeDevice(ctx context.Context) (*device, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.device != nil {
		return c.device, nil
	}
	resolved, err := c.resolveDevice(ctx)
	if err != nil {
		return nil, err
	}
	c.device = resolved
	return resolved, nil
}

// resolveDevice picks the active device, falling back to the first listed one.
func (c *client) resolveDevice(ctx context.Context) (*device, error) {
	var listing struct {
		Devices []device `json:"devices"`
	}
	if err := c.call(ctx, http.MethodGet, "/v1/me/player/devices", nil, &listing); err != nil {
		return nil, err
	}
	if len(listing.Devices) == 0 {
		return nil, fmt.Errorf("no spotify playback device available")
	}
	for i := range listing.Devices {
		if listing.Devices[i].IsActive {
			return &listing.Devices[i], nil
		}
	}
	return &listing.Devices[0], nil
}

func (c *client) invalidateDevice() {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.device = nil
}

// onDevice runs fn against the resolved device, re-resolving once when the
// cached device turns out to be gone.
func (c *client) onDevice(ctx context.Context, fn func(d *device) error) error {
	target, err := c.activeDevice(ctx)
	if err != nil {
		return err
	}
	if err = fn(target); !isDeviceGone(err) {
		return err
	}
	c.invalidateDevice()
	if target, err = c.activeDevice(ctx); err != nil {
		return err
	}
	return fn(target)
}

// currentTrackID returns the id of the currently playing track.
func (c *client) currentTrackID(ctx context.Context) (string, error) {
	var playing struct {
		Item struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"item"`
	}
	if err := c.call(ctx, http.MethodGet, "/v1/me/player/currently-playing", nil, &playing); err != nil {
		return "", err
	}
	if playing.Item.ID == "" {
		return "", fmt.Errorf("nothing is currently playing")
	}
	return playing.Item.ID, nil
}

// setVolume applies an absolute volume on the target device and updates the
// cached device state.
func (c *client) setVolume(ctx context.Context, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	err := c.onDevice(ctx, func(d *device) error {
		query := url.Values{}
		query.Set("volume_percent", fmt.Sprintf("%d", percent))
		query.Set("device_id", d.ID)
		return c.call(ctx, http.MethodPut, "/v1/me/player/volume", query, nil)
	})
	if err != nil {
		return err
	}
	c.mux.Lock()
	if c.device != nil {
		c.device.VolumePercent = percent
	}
	c.mux.Unlock()
	return nil
}
