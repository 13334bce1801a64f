package mapper

// Option is used to customise the mapper instance.
type Option func(*Service)

// WithListener sets the listener invoked after every dispatched action.
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}
