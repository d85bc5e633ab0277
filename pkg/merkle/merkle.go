// Package merkle implements Lithium's sorted-leaf Merkle tree: leaves are
// keccak256-hashed, sorted ascending by numeric value, then folded
// pairwise into a root. Every stored node has its top bit (bit 255)
// cleared; that bit is reused on the wire to tag a proof sibling as a
// left or right child, removing the need for a separate direction
// vector alongside the proof path.
package merkle

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/clearmatics/lithium/pkg/codec"
)

// sentinelLabel is hashed (without further wrapping) to produce the
// deterministic padding node used whenever a tree level has odd
// cardinality.
const sentinelLabel = "merkle-tree-extra"

// topBitMask isolates bit 255, the most significant bit of the 256-bit
// word (word index 3 in uint256.Int's little-endian limb layout).
var topBitMask = uint256.Int{0, 0, 0, 1 << 63}

// NotFoundError is returned by Path when the requested leaf is not
// present in the tree's level 0.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// Tree is a constructed Merkle tree over a set of leaves. Levels[0] is
// the sorted, hashed (and possibly sentinel-padded) leaf level;
// Levels[len-1] holds only the root.
type Tree struct {
	Levels [][]*uint256.Int
	Root   *uint256.Int
}

func setBit255(n *uint256.Int) *uint256.Int {
	return new(uint256.Int).Or(n, &topBitMask)
}

func clearBit255(n *uint256.Int) *uint256.Int {
	notMask := new(uint256.Int).Not(&topBitMask)
	return new(uint256.Int).And(n, notMask)
}

func testBit255(n *uint256.Int) bool {
	masked := new(uint256.Int).And(n, &topBitMask)
	return !masked.IsZero()
}

// hashNode hashes data with Keccak-256 and clears bit 255, producing a
// value safe to store as a tree node (the bit is reserved for direction
// tagging in proof paths).
func hashNode(data ...[]byte) *uint256.Int {
	digest := codec.Keccak256(data...)
	n := new(uint256.Int).SetBytes32(digest[:])
	return clearBit255(n)
}

func sentinel() *uint256.Int {
	return hashNode([]byte(sentinelLabel))
}

// BuildTree hashes each item, sorts the resulting digests ascending, and
// folds them pairwise into a root. An empty item set yields a
// single-level tree containing the zero node and a zero root. A level
// with odd cardinality is padded with the sentinel node before pairing,
// and the padding becomes part of the stored level (so a proof for the
// leaf adjacent to the padding carries the sentinel as its sibling).
func BuildTree(items [][]byte) (*Tree, error) {
	if len(items) == 0 {
		zero := new(uint256.Int)
		return &Tree{Levels: [][]*uint256.Int{{zero}}, Root: zero}, nil
	}

	level0 := make([]*uint256.Int, len(items))
	for i, item := range items {
		level0[i] = hashNode(item)
	}
	sortAscending(level0)

	levels := [][]*uint256.Int{level0}
	for {
		current := levels[len(levels)-1]
		if len(current)%2 != 0 {
			current = append(current, sentinel())
			levels[len(levels)-1] = current
		}

		next := make([]*uint256.Int, 0, len(current)/2)
		for i := 0; i < len(current); i += 2 {
			next = append(next, hashNode(current[i].Bytes(), current[i+1].Bytes()))
		}
		levels = append(levels, next)
		if len(next) == 1 {
			break
		}
	}

	root := levels[len(levels)-1][0]
	return &Tree{Levels: levels, Root: root}, nil
}

// sortAscending sorts nodes by numeric value; level sizes are small
// enough (one block's worth of leaves) that insertion sort's simplicity
// outweighs any asymptotic concern.
func sortAscending(nodes []*uint256.Int) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j-1].Cmp(nodes[j]) > 0; j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}
}

// Path returns the direction-tagged sibling path from item's hashed leaf
// to the tree's root. If item hashes to a leaf present more than once in
// level 0, the first occurrence's path is returned. Returns NotFoundError
// if item is absent from level 0.
func Path(item []byte, tree *Tree) ([]*uint256.Int, error) {
	target := hashNode(item)
	level0 := tree.Levels[0]

	idx := -1
	for i, n := range level0 {
		if n.Cmp(target) == 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &NotFoundError{msg: fmt.Sprintf("leaf %x not present in tree", target.Bytes32())}
	}

	path := make([]*uint256.Int, 0, len(tree.Levels)-1)
	for _, level := range tree.Levels[:len(tree.Levels)-1] {
		if idx%2 == 0 {
			path = append(path, setBit255(level[idx+1]))
		} else {
			path = append(path, level[idx-1])
		}
		idx /= 2
	}
	return path, nil
}

// Verify recomputes the root from leaf and path and reports whether it
// matches root. Each path element's top bit selects whether the sibling
// hashes as the left or right operand: set means the sibling is the
// right child (the proven node was on the left), cleared means the
// sibling is the left child.
func Verify(leaf []byte, path []*uint256.Int, root *uint256.Int) bool {
	node := hashNode(leaf)
	for _, sibling := range path {
		if testBit255(sibling) {
			node = hashNode(node.Bytes(), clearBit255(sibling).Bytes())
		} else {
			node = hashNode(sibling.Bytes(), node.Bytes())
		}
	}
	return node.Cmp(root) == 0
}
