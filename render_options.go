package mdh

// Option configures rendering behavior.
type Option func(*renderConfig)

type renderConfig struct {
	html bool
}

// WithHTML enables or disables raw HTML passthrough. When disabled, angle
// brackets in the source are escaped.
func WithHTML(enabled bool) Option {
	return func(cfg *renderConfig) {
		cfg.html = enabled
	}
}
