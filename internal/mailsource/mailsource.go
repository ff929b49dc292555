// Package mailsource defines the mail-retrieval boundary and a
// filesystem-backed implementation of it.
//
// The pipeline only ever sees the Source interface: a finite batch of
// candidate messages with attachment bytes, and an idempotent processed
// acknowledgement. OAuth, labels, and transport are someone else's problem.
package mailsource

import (
	"context"
	"time"
)

// Message is one candidate document from the mail source.
type Message struct {
	ID         string
	Sender     string
	Subject    string
	ReceivedAt time.Time
	Attachment []byte
}

// Source supplies candidate statement documents.
type Source interface {
	// FetchCandidates returns the unprocessed messages matching query.
	// The batch is finite; calling again after acknowledgements resumes
	// where processing left off.
	FetchCandidates(ctx context.Context, query string) ([]Message, error)

	// MarkProcessed acknowledges a message so later fetches skip it.
	// It is idempotent: acknowledging twice is not an error.
	MarkProcessed(ctx context.Context, id string) error
}
