// Package bootstrap runs an rxkit service: it validates configuration,
// starts registered components in order, runs lifecycle hooks, prints a
// startup summary and stops everything in reverse on SIGINT or SIGTERM.
//
//	cfg, err := config.Load("rxdemo")
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	app.RegisterComponent(events)
//	return app.Run(ctx)
package bootstrap
