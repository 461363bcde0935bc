package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkValidation(t *testing.T) {
	r, err := NewGrowableRenderer(&memDevice{}, &memEffect{})
	require.NoError(t, err)

	_, err = NewChunk(0, 2, 2, r)
	assert.ErrorIs(t, err, ErrChunkDimensions)
	_, err = NewChunk(2, -1, 2, r)
	assert.ErrorIs(t, err, ErrChunkDimensions)
	_, err = NewChunk(2, 2, 2, nil)
	assert.ErrorIs(t, err, ErrNilRenderer)
}

func TestIndexCoordsRoundTrip(t *testing.T) {
	rig := newRig(t, 3, 4, 5, false)
	c := rig.chunk

	assert.Equal(t, 60, c.TotalSize())
	for z := 0; z < 5; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 3; x++ {
				i := c.Index(x, y, z)
				gx, gy, gz := c.Coords(i)
				require.Equal(t, [3]int{x, y, z}, [3]int{gx, gy, gz}, "index %d", i)
			}
		}
	}
	// Row-major: x varies fastest.
	assert.Equal(t, 1, c.Index(1, 0, 0))
	assert.Equal(t, 3, c.Index(0, 1, 0))
	assert.Equal(t, 12, c.Index(0, 0, 1))
}

func TestBuildChunk(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	data := records(4)

	require.NoError(t, rig.chunk.BuildChunk(data, AllBlocks, false))
	assert.Equal(t, 4, rig.chunk.BlockCount())
	assert.Equal(t, 4, rig.renderer.ActiveCount())
}

func TestBuildChunkPartialActive(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)

	require.NoError(t, rig.chunk.BuildChunk(records(4), 2, false))
	assert.Equal(t, 4, rig.chunk.BlockCount())
	assert.Equal(t, 2, rig.renderer.ActiveCount())
}

func TestBuildChunkArgumentConditions(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)

	assert.ErrorIs(t, rig.chunk.BuildChunk(nil, AllBlocks, false), ErrNilBlockData)
	assert.ErrorIs(t, rig.chunk.BuildChunk(records(9), AllBlocks, false), ErrBlockDataTooLarge)
	assert.ErrorIs(t, rig.chunk.BuildChunk(records(4), -3, false), ErrActiveCountRange)
	assert.ErrorIs(t, rig.chunk.BuildChunk(records(4), 5, false), ErrActiveCountRange)
}

func TestBuildChunkTwiceNeedsRebuildFlag(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	err := rig.chunk.BuildChunk(records(2), AllBlocks, false)
	require.ErrorIs(t, err, ErrChunkAlreadyBuilt)

	require.NoError(t, rig.chunk.BuildChunk(records(2), AllBlocks, true))
	assert.Equal(t, 2, rig.chunk.BlockCount())
	assert.Equal(t, 2, rig.renderer.ActiveCount())
}

func TestSetBlockDataRequiresBuild(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	err := rig.chunk.SetBlockData(0, stone(1))
	require.ErrorIs(t, err, ErrRendererNotInitialized)
}

func TestSetBlockDataWritesThrough(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	require.NoError(t, rig.chunk.SetBlockData(2, stone(42)))
	assert.Equal(t, uint8(42), rig.buffer().slot(2).Palette)
	assert.Equal(t, 4, rig.chunk.BlockCount(), "block count unchanged")
}

// The 2x2x2 boundary scenario: the chunk's TotalSize ceiling trips
// before the renderer's growth policy can ever exceed the grid.
func TestChunkCapacityCeiling(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), 4, false))
	require.Equal(t, 4, rig.chunk.BlockCount())

	for i := 0; i < 4; i++ {
		slot, err := rig.chunk.AddBlock(stone(uint8(10+i)), false)
		require.NoError(t, err)
		assert.Equal(t, 4+i, slot)
	}
	assert.Equal(t, 8, rig.chunk.BlockCount())
	assert.Equal(t, 0, rig.renderer.FreeBlocks())

	_, err := rig.chunk.AddBlock(stone(99), false)
	require.ErrorIs(t, err, ErrChunkFull)

	// Even with rebuild permission the chunk-level ceiling fails first;
	// the renderer never sees the request.
	allocs := rig.device.allocated
	_, err = rig.chunk.AddBlock(stone(99), true)
	require.ErrorIs(t, err, ErrChunkFull)
	assert.Equal(t, allocs, rig.device.allocated)
	assert.Equal(t, 8, rig.renderer.Capacity())
}

func TestChunkAddAfterShrinkingRebuild(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	require.NoError(t, rig.chunk.RemoveBlock(1))
	require.NoError(t, rig.chunk.Rebuild(AllBlocks))
	require.Equal(t, 3, rig.chunk.BlockCount())
	require.Equal(t, 0, rig.renderer.FreeBlocks())

	// Below the chunk ceiling but the shrunk buffer is full: without
	// rebuild permission this is a buffer capacity error, with it the
	// renderer grows.
	_, err := rig.chunk.AddBlock(stone(9), false)
	require.ErrorIs(t, err, ErrBufferFull)

	slot, err := rig.chunk.AddBlock(stone(9), true)
	require.NoError(t, err)
	assert.Equal(t, 3, slot)
	assert.Equal(t, 4, rig.chunk.BlockCount())
}

func TestChunkRemoveThenRebuildCounts(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	require.NoError(t, rig.chunk.RemoveBlock(2))
	require.NoError(t, rig.chunk.Rebuild(AllBlocks))

	assert.Equal(t, 3, rig.chunk.BlockCount())
	assert.Equal(t, 3, rig.renderer.ActiveCount())
	palettes := []uint8{
		rig.buffer().slot(0).Palette,
		rig.buffer().slot(1).Palette,
		rig.buffer().slot(2).Palette,
	}
	assert.Equal(t, []uint8{1, 2, 4}, palettes)
}

func TestChunkPositionPropagation(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	pos := mgl32.Vec3{16, 0, -16}
	rig.chunk.SetPosition(pos)
	assert.Equal(t, pos, rig.chunk.Position())
	require.NotEmpty(t, rig.effect.positions)
	assert.Equal(t, pos, rig.effect.positions[len(rig.effect.positions)-1])

	// Draw re-pushes the transform right before pass application.
	rig.effect.events = nil
	require.NoError(t, rig.chunk.Draw())
	assert.Equal(t, []string{"position", "pass0", "pass1"}, rig.effect.events)
}

func TestChunkCloseIdempotent(t *testing.T) {
	rig := newRig(t, 2, 2, 2, false)
	require.NoError(t, rig.chunk.BuildChunk(records(4), AllBlocks, false))

	require.NoError(t, rig.chunk.Close())
	require.NoError(t, rig.chunk.Close())
	assert.Equal(t, 0, rig.device.leaked())
}
