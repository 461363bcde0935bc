package voxel

import "github.com/go-gl/mathgl/mgl32"

// Device is the narrow graphics-context contract the renderer consumes:
// allocation of typed buffers whose element size is BlockStride. A
// backend that cannot provide the required capability tier must fail at
// its own construction, not here.
type Device interface {
	// NewBlockBuffer allocates a buffer of capacity slots.
	NewBlockBuffer(capacity int) (BlockBuffer, error)
}

// BlockBuffer is one GPU-resident buffer of fixed-stride block slots.
// It is exclusively owned by a single renderer.
type BlockBuffer interface {
	// Capacity returns the number of slots the buffer holds.
	Capacity() int

	// WriteRange copies packed instance data into consecutive slots
	// starting at slot. len(data) must be a multiple of FloatsPerBlock
	// and the range must lie within capacity.
	WriteRange(slot int, data []float32)

	// Draw submits one draw call covering the first count slots.
	Draw(count int)

	// Release frees the GPU storage. Idempotent.
	Release()
}

// Effect is the render-effect collaborator. The renderer never reaches
// past these operations: pass iteration for draw submission, the shared
// palette, and the per-chunk transform.
type Effect interface {
	// Passes returns the number of technique passes. Pass order is
	// effect-defined and must be preserved by callers (some passes are
	// order-sensitive, e.g. opaque before transparent).
	Passes() int

	// ApplyPass makes pass i current.
	ApplyPass(i int)

	// SetPalette uploads the shared colour table.
	SetPalette(p Palette) error

	// SetChunkPosition pushes the per-chunk world transform. Callers
	// must push immediately before the chunk's own draw, never batched
	// separately from it.
	SetChunkPosition(pos mgl32.Vec3)
}
