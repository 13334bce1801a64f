// Package wavetune turns recognized hand gestures into approved playback
// actions.
//
// A recognition source emits gesture observations onto a bounded queue; a
// single consumer drains it into an approval manager that requires a closed
// fist to confirm each mapped gesture before the bound action runs. Actions
// are pluggable services (Spotify Web API playback ships in
// service/player/spotify) resolved by "service.method" name.
//
// Typical embedding:
//
//	cfg, _ := config.Load(ctx, "config.yaml")
//	srv, _ := wavetune.New(wavetune.WithConfig(cfg))
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	defer rt.Shutdown(context.Background())
//
// For direct feeding (no recognizer process) use rt.Submit or
// srv.HandleGesture.
package wavetune
