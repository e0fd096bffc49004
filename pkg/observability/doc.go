/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured audit logs.

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	eng, _ := cvrguide.New(cvrguide.WithLifecycleHooks(hooks))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
