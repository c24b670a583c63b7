package quorumpart

// Option configures a Balancer with optional dependencies.
type Option func(*balancerOptions)

// balancerOptions holds optional Balancer configuration.
type balancerOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Example:
//
//	hooks := &quorumpart.Hooks{
//	    OnClaimed: func(ctx context.Context, rec quorumpart.OwnershipRecord) {
//	        startReaderFor(rec.PartitionID)
//	    },
//	}
//	bal, _ := quorumpart.NewBalancer(&cfg, store, quorumpart.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *balancerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector. Defaults to a no-op collector.
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *balancerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger. Defaults to a no-op logger that discards every
// call.
func WithLogger(logger Logger) Option {
	return func(o *balancerOptions) {
		o.logger = logger
	}
}
