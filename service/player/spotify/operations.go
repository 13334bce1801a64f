package spotify

import (
	"context"
	"net/http"
	"net/url"
)

// LikeInput saves the currently playing track to the user's library.
type LikeInput struct{}

type LikeOutput struct {
	TrackID string `json:"trackId,omitempty"`
	Success bool   `json:"success"`
}

// NextInput skips to the next track.
type NextInput struct{}

type NextOutput struct {
	Success bool `json:"success"`
}

// PauseInput pauses playback on the active device.
type PauseInput struct{}

type PauseOutput struct {
	Success bool `json:"success"`
}

// VolumeInput adjusts volume by Step percent (defaults to 10).
type VolumeInput struct {
	Step int `json:"step,omitempty"`
}

type VolumeOutput struct {
	Volume  int  `json:"volume"`
	Success bool `json:"success"`
}

// MuteInput silences the active device, remembering the current volume.
type MuteInput struct{}

// UnmuteInput restores the volume remembered by the last mute.
type UnmuteInput struct{}

const defaultVolumeStep = 10

// Like saves the currently playing track.
func (s *Service) Like(ctx context.Context, input *LikeInput, output *LikeOutput) error {
	trackID, err := s.client.currentTrackID(ctx)
	if err != nil {
		return err
	}
	query := url.Values{}
	query.Set("ids", trackID)
	if err := s.client.call(ctx, http.MethodPut, "/v1/me/tracks", query, nil); err != nil {
		return err
	}
	output.TrackID = trackID
	output.Success = true
	return nil
}

// Next skips to the next track.
func (s *Service) Next(ctx context.Context, input *NextInput, output *NextOutput) error {
	if err := s.client.call(ctx, http.MethodPost, "/v1/me/player/next", nil, nil); err != nil {
		return err
	}
	output.Success = true
	return nil
}

// Pause pauses playback.
func (s *Service) Pause(ctx context.Context, input *PauseInput, output *PauseOutput) error {
	if err := s.client.call(ctx, http.MethodPut, "/v1/me/player/pause", nil, nil); err != nil {
		return err
	}
	output.Success = true
	return nil
}

// VolumeUp raises volume by the input step, clamped to 100.
func (s *Service) VolumeUp(ctx context.Context, input *VolumeInput, output *VolumeOutput) error {
	return s.adjustVolume(ctx, step(input), output)
}

// VolumeDown lowers volume by the input step, clamped to 0.
func (s *Service) VolumeDown(ctx context.Context, input *VolumeInput, output *VolumeOutput) error {
	return s.adjustVolume(ctx, -step(input), output)
}

func step(input *VolumeInput) int {
	if input == nil || input.Step <= 0 {
		return defaultVolumeStep
	}
	return input.Step
}

func (s *Service) adjustVolume(ctx context.Context, delta int, output *VolumeOutput) error {
	target, err := s.client.activeDevice(ctx)
	if err != nil {
		return err
	}
	volume := clamp(target.VolumePercent + delta)
	if err := s.client.setVolume(ctx, volume); err != nil {
		return err
	}
	output.Volume = volume
	output.Success = true
	return nil
}

// Mute sets volume to zero and remembers the previous level.
func (s *Service) Mute(ctx context.Context, input *MuteInput, output *VolumeOutput) error {
	target, err := s.client.activeDevice(ctx)
	if err != nil {
		return err
	}
	previous := target.VolumePercent
	if err := s.client.setVolume(ctx, 0); err != nil {
		return err
	}
	s.mux.Lock()
	if previous > 0 {
		s.preMuteVolume = previous
	}
	s.mux.Unlock()
	output.Volume = 0
	output.Success = true
	return nil
}

// Unmute restores the volume remembered by Mute; without one it falls back to
// a sensible audible level.
func (s *Service) Unmute(ctx context.Context, input *UnmuteInput, output *VolumeOutput) error {
	s.mux.Lock()
	restored := s.preMuteVolume
	s.mux.Unlock()
	if restored <= 0 {
		restored = 50
	}
	if err := s.client.setVolume(ctx, restored); err != nil {
		return err
	}
	output.Volume = restored
	output.Success = true
	return nil
}

func clamp(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
