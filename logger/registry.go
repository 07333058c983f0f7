package logger

import "sync"

// Named loggers shared by packages that log under a fixed component name
// (rx, bus, sse, ...).
var (
	namedMu sync.RWMutex
	named   = map[string]*Logger{}
)

// Register stores l under name. A later Register replaces it.
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Get returns the logger registered under name, or the global logger
// tagged with name when nothing is registered.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers a component logger derived from the global
// logger for each name. Call it after Init so they share its settings.
func RegisterDefaults(names ...string) {
	global := GetGlobalLogger()
	namedMu.Lock()
	defer namedMu.Unlock()
	for _, name := range names {
		named[name] = global.WithComponent(name)
	}
}
