package merkle

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// createTestItems creates n distinct 32-byte leaf items for testing.
func createTestItems(n int) [][]byte {
	items := make([][]byte, n)
	for i := range items {
		h := randomHash()
		items[i] = h[:]
	}
	return items
}

func randomHash() [32]byte {
	var hash [32]byte
	_, _ = rand.Read(hash[:])
	return hash
}

func TestBuildTreeSizes(t *testing.T) {
	testCases := []struct {
		name     string
		numItems int
	}{
		{"Single item", 1},
		{"Two items", 2},
		{"Three items", 3},
		{"Four items (power of 2)", 4},
		{"Seven items", 7},
		{"Eight items (power of 2)", 8},
		{"Fifteen items", 15},
		{"Sixteen items (power of 2)", 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := createTestItems(tc.numItems)
			tree, err := BuildTree(items)
			require.NoError(t, err)
			require.NotNil(t, tree)
			require.False(t, tree.Root.IsZero())

			for _, item := range items {
				path, err := Path(item, tree)
				require.NoError(t, err)
				require.True(t, Verify(item, path, tree.Root))
			}
		})
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	tree, err := BuildTree(nil)
	require.NoError(t, err)
	require.NotNil(t, tree)
	require.True(t, tree.Root.IsZero())
	require.Len(t, tree.Levels, 1)
	require.Len(t, tree.Levels[0], 1)
}

func TestVerifyValidAndInvalid(t *testing.T) {
	items := createTestItems(4)
	tree, err := BuildTree(items)
	require.NoError(t, err)

	t.Run("valid proof", func(t *testing.T) {
		path, err := Path(items[0], tree)
		require.NoError(t, err)
		require.True(t, Verify(items[0], path, tree.Root))
	})

	t.Run("wrong root", func(t *testing.T) {
		path, err := Path(items[0], tree)
		require.NoError(t, err)
		badRoot := uint256.NewInt(42)
		require.False(t, Verify(items[0], path, badRoot))
	})

	t.Run("tampered leaf", func(t *testing.T) {
		path, err := Path(items[0], tree)
		require.NoError(t, err)
		tampered := append([]byte(nil), items[0]...)
		tampered[0] ^= 0xFF
		require.False(t, Verify(tampered, path, tree.Root))
	})

	t.Run("tampered sibling", func(t *testing.T) {
		path, err := Path(items[0], tree)
		require.NoError(t, err)
		require.NotEmpty(t, path)
		badPath := make([]*uint256.Int, len(path))
		copy(badPath, path)
		badPath[0] = new(uint256.Int).AddUint64(path[0], 1)
		require.False(t, Verify(items[0], badPath, tree.Root))
	})

	t.Run("direction bit flip breaks verification", func(t *testing.T) {
		path, err := Path(items[0], tree)
		require.NoError(t, err)
		require.NotEmpty(t, path)
		flipped := make([]*uint256.Int, len(path))
		copy(flipped, path)
		flipped[0] = new(uint256.Int).Xor(path[0], &topBitMask)
		require.False(t, Verify(items[0], flipped, tree.Root))
	})
}

func TestPathNotFound(t *testing.T) {
	items := createTestItems(4)
	tree, err := BuildTree(items)
	require.NoError(t, err)

	absent := randomHash()
	path, err := Path(absent[:], tree)
	require.Error(t, err)
	require.Nil(t, path)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestThreeLeavesPadWithSentinel(t *testing.T) {
	items := createTestItems(3)
	tree, err := BuildTree(items)
	require.NoError(t, err)
	require.Len(t, tree.Levels[0], 4)
	require.Equal(t, sentinel().Bytes(), tree.Levels[0][3].Bytes())

	// The sentinel-adjacent leaf (index 2, even) carries the sentinel at
	// level 0 as its sibling, tagged as a right child.
	adjacent := tree.Levels[0][2]
	var adjacentItem []byte
	for _, item := range items {
		if hashNode(item).Cmp(adjacent) == 0 {
			adjacentItem = item
			break
		}
	}
	require.NotNil(t, adjacentItem)

	path, err := Path(adjacentItem, tree)
	require.NoError(t, err)
	require.True(t, testBit255(path[0]))
	require.Equal(t, sentinel().Bytes(), clearBit255(path[0]).Bytes())
}

func TestTreeDeterminism(t *testing.T) {
	items := createTestItems(10)

	tree1, err := BuildTree(items)
	require.NoError(t, err)
	tree2, err := BuildTree(items)
	require.NoError(t, err)

	require.Equal(t, tree1.Root.Bytes(), tree2.Root.Bytes())
}

func TestTreeOrderIndependence(t *testing.T) {
	items := createTestItems(10)

	tree1, err := BuildTree(items)
	require.NoError(t, err)

	shuffled := make([][]byte, len(items))
	copy(shuffled, items)
	for i, j := 0, len(shuffled)-1; i < j; i, j = i+1, j-1 {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	tree2, err := BuildTree(shuffled)
	require.NoError(t, err)

	require.Equal(t, tree1.Root.Bytes(), tree2.Root.Bytes())
}

func TestTreeLargeSet(t *testing.T) {
	sizes := []int{50, 100, 200}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("Size_%d", size), func(t *testing.T) {
			items := createTestItems(size)
			tree, err := BuildTree(items)
			require.NoError(t, err)

			for _, idx := range []int{0, size / 4, size / 2, size - 1} {
				path, err := Path(items[idx], tree)
				require.NoError(t, err)
				require.True(t, Verify(items[idx], path, tree.Root))
			}
		})
	}
}

func TestPathLengthIsLogarithmic(t *testing.T) {
	testCases := []struct {
		numItems      int
		maxPathLength int
	}{
		{1, 1},
		{2, 1},
		{4, 2},
		{8, 3},
		{16, 4},
		{100, 8},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d_items", tc.numItems), func(t *testing.T) {
			items := createTestItems(tc.numItems)
			tree, err := BuildTree(items)
			require.NoError(t, err)

			path, err := Path(items[0], tree)
			require.NoError(t, err)
			require.LessOrEqual(t, len(path), tc.maxPathLength)
		})
	}
}
