package cockpit

import "time"

// Message is a single timeline entry.
//
// Local marks an optimistic entry appended before its network round-trip
// settles. The gateway never returns local messages; they exist only on
// the client and keep their client-generated id and timestamp even after
// the send fails.
type Message struct {
	ID        string
	Role      Role
	Content   string
	AgentType string // backend agent that produced an assistant reply, if reported
	Timestamp time.Time
	Local     bool
}
