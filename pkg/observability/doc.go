/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log lines.

Both are delivered as domain.LifecycleHooks and can be combined:

	m, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := m.Hooks().Merge(observability.LoggingHooks(logger))
	eng, _ := augur.New(reg, augur.WithLifecycleHooks(hooks))
*/
package observability
