package recognizer

// Option customizes the recognizer service.
type Option func(*Service)

// WithArgs sets the arguments passed to the recognizer command.
func WithArgs(args ...string) Option {
	return func(s *Service) {
		s.args = args
	}
}

// WithDir sets the working directory of the recognizer process.
func WithDir(dir string) Option {
	return func(s *Service) {
		s.dir = dir
	}
}

// WithMinConfidence sets the confidence floor below which a detection is
// treated as no gesture.
func WithMinConfidence(min float64) Option {
	return func(s *Service) {
		s.minConfidence = min
	}
}

// WithStderrListener replaces the default log-based recognizer stderr sink.
func WithStderrListener(listener func(string)) Option {
	return func(s *Service) {
		s.stderr = listener
	}
}
