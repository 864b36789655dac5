// Package audit publishes a fire-and-forget event per protocol operation to
// Kafka, so an operator can reconstruct who shared or unwrapped a log
// without the library itself holding any persisted state (SPEC_FULL.md §3,
// §5's "no component mutates persisted state").
package audit

import "time"

// Operation names the protocol step an Event describes.
type Operation string

const (
	// OperationShareCompleted fires after EncryptionService.Encrypt succeeds.
	OperationShareCompleted Operation = "share.completed"
	// OperationUnwrapCompleted fires after DecryptionService.Decrypt succeeds.
	OperationUnwrapCompleted Operation = "unwrap.completed"
	// OperationUnwrapRejected fires when Decrypt fails invariant checking,
	// signature verification, or authorization.
	OperationUnwrapRejected Operation = "unwrap.rejected"
)

// Event is a single audit record for one protocol operation.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Operation    Operation `json:"operation"`
	ActorID      string    `json:"actorId"`
	OwnerID      string    `json:"ownerId,omitempty"`
	RecipientIDs []string  `json:"recipientIds,omitempty"`
	FailureCode  string    `json:"failureCode,omitempty"`
}
