// FILE: lixenwraith/settings/timing.go
package settings

import "time"

// Watcher timing. PollInterval values below MinPollInterval are raised to it.
const (
	SpinWaitInterval     = 5 * time.Millisecond   // stop() wait quantum
	MinPollInterval      = 100 * time.Millisecond // floor for stat polling
	ShutdownTimeout      = 100 * time.Millisecond // how long stop() waits for the poll loop
	DefaultDebounce      = 500 * time.Millisecond // changes within this window coalesce
	DefaultPollInterval  = time.Second
	DefaultReloadTimeout = 5 * time.Second // a slower reload is logged and abandoned
)
