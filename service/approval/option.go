package approval

import (
	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/event"
)

type Option func(*Manager)

// WithPolicy sets the manager-level approval policy. A per-call policy in
// the context still takes precedence.
func WithPolicy(p *policy.Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithNotices sets the publisher that receives state-transition notices.
func WithNotices(p *event.Publisher[Notice]) Option {
	return func(m *Manager) { m.notices = p }
}
