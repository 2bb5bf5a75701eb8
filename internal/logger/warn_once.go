package logger

import "sync"

var (
	onceMu sync.Mutex
	warned = map[string]bool{}
)

// WarnOnce logs a warning the first time it is called for key and is a no-op afterwards.
func WarnOnce(key string, msg string, args ...any) {
	onceMu.Lock()
	seen := warned[key]
	warned[key] = true
	onceMu.Unlock()
	if !seen {
		Warn(msg, args...)
	}
}
