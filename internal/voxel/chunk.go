package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk is a bounded 3D grid of block records with a world position.
// It is a thin facade: all GPU-facing work is delegated to the one
// renderer it was constructed with. Blocks are stored dense, row-major
// by (sizeX, sizeY, sizeZ).
type Chunk struct {
	sizeX, sizeY, sizeZ int

	position   mgl32.Vec3
	blocks     []BlockRecord
	blockCount int
	renderer   ChunkRenderer
}

// NewChunk creates a chunk of the given dimensions backed by r. The
// dimensions are immutable; their product is the hard capacity ceiling
// for the chunk's block count.
func NewChunk(sizeX, sizeY, sizeZ int, r ChunkRenderer) (*Chunk, error) {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("chunk %dx%dx%d: %w", sizeX, sizeY, sizeZ, ErrChunkDimensions)
	}
	if r == nil {
		return nil, fmt.Errorf("chunk: %w", ErrNilRenderer)
	}
	return &Chunk{sizeX: sizeX, sizeY: sizeY, sizeZ: sizeZ, renderer: r}, nil
}

func (c *Chunk) SizeX() int { return c.sizeX }
func (c *Chunk) SizeY() int { return c.sizeY }
func (c *Chunk) SizeZ() int { return c.sizeZ }

// TotalSize is the grid cell count, the most blocks the chunk accepts.
func (c *Chunk) TotalSize() int { return c.sizeX * c.sizeY * c.sizeZ }

// BlockCount is the number of records currently populated.
func (c *Chunk) BlockCount() int { return c.blockCount }

// Index linearizes grid coordinates row-major.
func (c *Chunk) Index(x, y, z int) int {
	return x + c.sizeX*(y+c.sizeY*z)
}

// Coords is the inverse of Index. Indices at or past TotalSize keep
// extending along z, which is how slots of a grown buffer map back to
// grid space.
func (c *Chunk) Coords(i int) (x, y, z int) {
	x = i % c.sizeX
	i /= c.sizeX
	y = i % c.sizeY
	z = i / c.sizeY
	return
}

// BuildChunk is the one-time bulk initializer. It hands data to the
// renderer, which allocates and populates the GPU buffer with the
// first activeCount records active (AllBlocks = every record).
// Rebuilding an already-built chunk requires the rebuild flag, so data
// is never silently discarded.
func (c *Chunk) BuildChunk(data []BlockRecord, activeCount int, rebuild bool) error {
	if data == nil {
		return fmt.Errorf("build chunk: %w", ErrNilBlockData)
	}
	if len(data) > c.TotalSize() {
		return fmt.Errorf("build chunk: %d blocks into %d cells: %w",
			len(data), c.TotalSize(), ErrBlockDataTooLarge)
	}
	if c.renderer.Initialized() && !rebuild {
		return fmt.Errorf("build chunk: %w", ErrChunkAlreadyBuilt)
	}
	if activeCount != AllBlocks && (activeCount < 0 || activeCount > len(data)) {
		return fmt.Errorf("build chunk: active count %d of %d blocks: %w",
			activeCount, len(data), ErrActiveCountRange)
	}
	if err := c.renderer.Initialize(c, data, activeCount); err != nil {
		return fmt.Errorf("build chunk: %w", err)
	}
	c.blocks = data
	c.blockCount = len(data)
	return nil
}

// AddBlock appends one block, delegating to the renderer's add (which
// may rebuild its buffer when rebuildIfNeeded is set). The chunk's own
// TotalSize ceiling is enforced first, so the renderer is never asked
// to grow past the grid through this facade.
func (c *Chunk) AddBlock(rec BlockRecord, rebuildIfNeeded bool) (int, error) {
	if c.blockCount >= c.TotalSize() {
		return 0, fmt.Errorf("add block: %d of %d: %w", c.blockCount, c.TotalSize(), ErrChunkFull)
	}
	slot, err := c.renderer.AddBlock(rec, rebuildIfNeeded)
	if err != nil {
		return 0, err
	}
	if c.blockCount < len(c.blocks) {
		c.blocks[c.blockCount] = rec
	} else {
		c.blocks = append(c.blocks, rec)
	}
	c.blockCount++
	return slot, nil
}

// SetBlockData overwrites the record at a slot without changing the
// block count. The renderer must have been initialized.
func (c *Chunk) SetBlockData(index int, rec BlockRecord) error {
	if !c.renderer.Initialized() {
		return fmt.Errorf("set block data: %w", ErrRendererNotInitialized)
	}
	if err := c.renderer.SetBlock(rec, index); err != nil {
		return err
	}
	if index >= 0 && index < len(c.blocks) {
		c.blocks[index] = rec
	}
	return nil
}

// RemoveBlock tombstones the block at a slot; space is reclaimed on the
// next Rebuild.
func (c *Chunk) RemoveBlock(index int) error {
	return c.renderer.RemoveBlock(index)
}

// Rebuild compacts the renderer's buffer and syncs the chunk's count to
// the surviving blocks.
func (c *Chunk) Rebuild(maxBlocks int) error {
	if err := c.renderer.Rebuild(maxBlocks); err != nil {
		return err
	}
	if n := c.renderer.ActiveCount(); n < c.blockCount {
		c.blockCount = n
	}
	return nil
}

// Position returns the chunk origin in world space.
func (c *Chunk) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the chunk. The renderer's transform state is
// updated synchronously; there is no separate sync step.
func (c *Chunk) SetPosition(pos mgl32.Vec3) {
	c.position = pos
	c.renderer.SetPosition(pos)
}

// Draw submits the chunk through its renderer.
func (c *Chunk) Draw() error {
	return c.renderer.Draw()
}

// Close releases the renderer's GPU resources. Idempotent.
func (c *Chunk) Close() error {
	return c.renderer.Close()
}
