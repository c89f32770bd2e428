package proc

// EventType names a process lifecycle transition published by the kernel.
type EventType string

const (
	EventFork   EventType = "fork"
	EventExit   EventType = "exit"
	EventReap   EventType = "reap"
	EventKill   EventType = "kill"
	EventWakeup EventType = "wakeup"
)

// Lifecycle describes one lifecycle transition.
type Lifecycle struct {
	Type      EventType `json:"type"`
	PID       int       `json:"pid"`
	ParentPID int       `json:"parentPid,omitempty"`
	Quota     int       `json:"quota,omitempty"`
	Ticks     uint64    `json:"ticks"`
}
