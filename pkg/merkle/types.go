package merkle

import "github.com/holiman/uint256"

// Proof bundles a leaf's sibling path with the root it was produced
// against, for callers that want to carry the two together (e.g. before
// serializing into a ProofBlob in pkg/proof).
type Proof struct {
	Leaf []byte
	Path []*uint256.Int
	Root *uint256.Int
}
