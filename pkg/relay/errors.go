package relay

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors forming the relay's taxonomy. Call sites wrap these
// with errors.Wrap/Wrapf to attach context while leaving errors.Is able
// to classify the failure.
var (
	// EncodingError marks malformed hex or an over-range integer.
	EncodingError = errors.New("encoding error")

	// RpcError marks a transport or upstream RPC failure. Transient in
	// the relay loop (replanned next tick); fatal in the proof builder.
	RpcError = errors.New("rpc error")

	// NotFound marks a requested leaf absent from a tree, or a log
	// index beyond a receipt's log count.
	NotFound = errors.New("not found")

	// ProofConstructionError marks an internally inconsistent proof;
	// should be unreachable outside a bug or a source-chain reorg
	// between fetches.
	ProofConstructionError = errors.New("proof construction error")

	// HeightRaceError marks the destination height advancing under us
	// between plan and submit. Recovered by replanning.
	HeightRaceError = errors.New("height race")

	// SubmissionError marks an Update receipt with status 0. Fatal to
	// the current batch; the loop stops and the operator decides.
	SubmissionError = errors.New("submission error")

	// ConsistencyError marks a post-submit height or root mismatch.
	// Fatal; indicates the destination contract misbehaved or a reorg.
	ConsistencyError = errors.New("consistency error")

	// AlreadyRunning marks a second Run call on a relay already running.
	AlreadyRunning = errors.New("relay already running")

	// NotRunning marks lifecycle misuse of a relay that is not running.
	// Stop does not return it: stopping a stopped relay is a no-op.
	NotRunning = errors.New("relay not running")
)

// classified pairs a sentinel from the taxonomy above with the real
// underlying cause, so errors.Is(err, RpcError) still classifies it
// while errors.As/errors.Unwrap can still reach the original error
// instead of a flattened string.
type classified struct {
	kind    error
	message string
	cause   error
}

// classify wraps cause under kind with context, keeping cause reachable
// via Unwrap instead of collapsing it into kind's message.
func classify(kind error, message string, cause error) error {
	return &classified{kind: kind, message: message, cause: cause}
}

func (e *classified) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause)
	}
	return e.message
}

func (e *classified) Unwrap() error { return e.cause }

func (e *classified) Is(target error) bool { return target == e.kind }
