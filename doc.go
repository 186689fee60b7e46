// Package injectable provides a dependency injection container fused with a
// lazily recomputed reactive value graph.
//
// # Overview
//
// Injectable organizes code around four concepts:
//
//  1. Definitions: typed recipes (Injectable[T]) identified by a unique id
//  2. Registry: the append-only set of definitions an application knows about
//  3. Container: resolves definitions, caches singletons and detects cycles
//  4. Tokens: typed extension points with any number of implementing definitions
//
// Derived state lives in the reactive package; the container owns one
// reactive.Graph and disposes every computed value created through it.
//
// # Basic Usage
//
// Define and register definitions, then inject them:
//
//	var ConfigInjectable = injectable.Define("config", func(ctx *injectable.ResolveCtx) (*Config, error) {
//	    return &Config{Port: 8080}, nil
//	})
//
//	var ServerInjectable = injectable.Define("server", func(ctx *injectable.ResolveCtx) (*Server, error) {
//	    cfg, err := injectable.Inject(ctx, ConfigInjectable)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewServer(cfg.Port), nil
//	})
//
//	c := injectable.NewContainer()
//	if err := c.Register(ConfigInjectable, ServerInjectable); err != nil {
//	    return err
//	}
//	srv, err := injectable.Inject(c, ServerInjectable)
//
// Resolving the same definition twice returns the identical instance unless
// it was defined with AsTransient. A factory that injects a definition that is
// still being resolved gets a *CyclicDependencyError naming the full cycle.
//
// # Extension Points
//
// A token groups definitions produced by independent features:
//
//	var TabToken = injectable.CreateToken[Tab]("dock-tab")
//
//	var LogsTab = injectable.Implement(TabToken, "logs-tab", newLogsTab,
//	    injectable.EnabledWhen(func(r injectable.Resolver) bool {
//	        return injectable.MustInject(r, LogsEnabledState).Get()
//	    }),
//	)
//
//	tabs, _ := injectable.ComputedInjectMany(c, TabToken)
//	current, err := tabs.Get()
//
// The collection keeps registration order. Disabled implementers are skipped
// before resolution.
//
// # Side Effects
//
// Definitions that touch the outside world are marked CausesSideEffects.
// They are still singletons; a container created with PreventSideEffects
// refuses to build them unless they are overridden, which keeps tests from
// reaching real resources:
//
//	c := injectable.NewContainer(injectable.PreventSideEffects())
//	_ = injectable.OverrideValue(c, WatcherInjectable, fakeWatcher{})
//
// # Resource Cleanup
//
// Register cleanup functions for automatic resource management:
//
//	db := injectable.Define("db", func(ctx *injectable.ResolveCtx) (*DB, error) {
//	    database := OpenDB()
//	    ctx.OnCleanup(func() error {
//	        return database.Close()
//	    })
//	    return database, nil
//	})
//
// Cleanup functions are called when:
//   - the factory that registered them fails
//   - the container is disposed (c.Dispose())
//
// # Extensions
//
// Extensions wrap every injection (middleware style) and observe errors and
// disposal. See the extensions package for logging, graph debugging and
// tracing.
//
// # Thread Safety
//
// Containers and their reactive graphs are confined to one goroutine.
package injectable
