package doctree

// Pos points into the logical document by (block, col).
// Block is a 0-based block index; Col is a 0-based rune offset into the
// block's concatenated leaf text.
type Pos struct {
	Block int
	Col   int
}

func ComparePos(a, b Pos) int {
	if a.Block < b.Block {
		return -1
	}
	if a.Block > b.Block {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos clamps p into document bounds described by blockCount and blockLen.
//
// - blockCount is the number of blocks (treated as at least 1).
// - blockLen(block) returns the rune length of the given block's text.
//
// The returned Pos always satisfies:
// - 0 <= Block < blockCount
// - 0 <= Col <= blockLen(Block)
func ClampPos(p Pos, blockCount int, blockLen func(block int) int) Pos {
	if blockCount <= 0 {
		blockCount = 1
	}

	block := clampInt(p.Block, 0, blockCount-1)

	maxCol := 0
	if blockLen != nil {
		maxCol = blockLen(block)
		if maxCol < 0 {
			maxCol = 0
		}
	}
	col := clampInt(p.Col, 0, maxCol)

	return Pos{Block: block, Col: col}
}
