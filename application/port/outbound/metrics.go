package outbound

// AuthEventRecorder counts session lifecycle outcomes.
type AuthEventRecorder interface {
	RecordAuthEvent(event string, success bool)
}
