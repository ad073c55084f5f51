package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// HeaderKey is the request header carrying the client's idempotency key.
const HeaderKey = "Idempotency-Key"

// HeaderReplayed marks a response served from a stored record.
const HeaderReplayed = "Idempotent-Replayed"

// Record is one remembered create request.
type Record struct {
	Key            string
	Status         string
	Fingerprint    string // hash of method, path and body
	ResponseStatus int
	ResponseBody   []byte
	ContentType    string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}
