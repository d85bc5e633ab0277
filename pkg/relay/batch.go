package relay

import "github.com/clearmatics/lithium/pkg/block"

// Batch is a contiguous, ascending-height run of processed blocks ready
// to flatten into one Update call.
type Batch struct {
	Blocks []*block.Block
}
