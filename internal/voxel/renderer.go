package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkRenderer owns the GPU buffer and the capacity/fill-pointer
// bookkeeping for exactly one Chunk. The binding to that chunk is
// permanent: a renderer refuses to be re-initialized for a different
// chunk.
//
// Slot model: the fill pointer counts contiguous slots at the head of
// the buffer. Adds always append at the fill pointer; RemoveBlock only
// tombstones a slot. Tombstones occupy buffer space until Rebuild,
// which is the sole compacting operation.
type ChunkRenderer interface {
	Initialize(c *Chunk, blocks []BlockRecord, activeCount int) error
	SetBlock(rec BlockRecord, index int) error
	AddBlock(rec BlockRecord, rebuildIfNeeded bool) (int, error)
	RemoveBlock(index int) error
	Rebuild(maxBlocks int) error
	Draw() error
	SetPosition(pos mgl32.Vec3)

	FreeBlocks() int
	ActiveCount() int
	Capacity() int
	Initialized() bool
	Close() error
}

// growPolicy sizes a replacement buffer: given the current capacity and
// the minimum slot count that must fit, it returns the new capacity.
// Implementations must return at least required.
type growPolicy func(capacity, required int) int

// NewGrowableRenderer returns a renderer whose internal rebuilds grow
// capacity geometrically (doubling, floored at the required count), so
// repeated adds past capacity amortize to O(1) buffer reallocations.
func NewGrowableRenderer(dev Device, fx Effect) (ChunkRenderer, error) {
	return newRenderer(dev, fx, func(capacity, required int) int {
		next := capacity * 2
		if next < required {
			next = required
		}
		return next
	})
}

// NewFixedRenderer returns a renderer whose capacity only changes
// through an explicit Rebuild or an add with rebuildIfNeeded set, and
// then by exactly the amount required.
func NewFixedRenderer(dev Device, fx Effect) (ChunkRenderer, error) {
	return newRenderer(dev, fx, func(_, required int) int {
		return required
	})
}

type renderer struct {
	device Device
	effect Effect
	grow   growPolicy

	chunk  *Chunk
	buffer BlockBuffer

	// CPU mirror of the buffer: data holds the packed slots, live marks
	// occupied (non-tombstoned) slots within the fill pointer.
	data []float32
	live []bool
	fill int

	position    mgl32.Vec3
	initialized bool
	disposed    bool
}

func newRenderer(dev Device, fx Effect, grow growPolicy) (ChunkRenderer, error) {
	if dev == nil {
		return nil, fmt.Errorf("renderer: nil device: %w", ErrDeviceCapability)
	}
	if fx == nil {
		return nil, fmt.Errorf("renderer: nil effect: %w", ErrDeviceCapability)
	}
	return &renderer{device: dev, effect: fx, grow: grow}, nil
}

// Initialize allocates the buffer and populates it with blocks. The
// first activeCount slots (AllBlocks = all of them) become the active
// head; any remaining records are uploaded past the fill pointer and
// will be overwritten by subsequent adds. Re-initializing for the same
// chunk releases the old buffer first; a different chunk is rejected.
func (r *renderer) Initialize(c *Chunk, blocks []BlockRecord, activeCount int) error {
	if r.disposed {
		return fmt.Errorf("initialize: %w", ErrRendererDisposed)
	}
	if c == nil {
		return fmt.Errorf("initialize: nil chunk: %w", ErrChunkMismatch)
	}
	if r.chunk != nil && r.chunk != c {
		return fmt.Errorf("initialize: %w", ErrChunkMismatch)
	}
	if blocks == nil {
		return fmt.Errorf("initialize: %w", ErrNilBlockData)
	}
	if activeCount == AllBlocks {
		activeCount = len(blocks)
	}
	if activeCount < 0 || activeCount > len(blocks) {
		return fmt.Errorf("initialize: active count %d of %d blocks: %w",
			activeCount, len(blocks), ErrActiveCountRange)
	}

	capacity := c.TotalSize()
	if len(blocks) > capacity {
		capacity = len(blocks)
	}
	buf, err := r.device.NewBlockBuffer(capacity)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if r.buffer != nil {
		r.buffer.Release()
	}
	r.buffer = buf

	r.data = make([]float32, 0, capacity*FloatsPerBlock)
	for i, b := range blocks {
		x, y, z := c.Coords(i)
		r.data = b.appendInstance(r.data, x, y, z)
	}
	r.data = append(r.data, make([]float32, (capacity-len(blocks))*FloatsPerBlock)...)

	r.live = make([]bool, capacity)
	for i := 0; i < activeCount; i++ {
		r.live[i] = true
	}
	r.fill = activeCount

	if len(blocks) > 0 {
		r.buffer.WriteRange(0, r.data[:len(blocks)*FloatsPerBlock])
	}

	r.chunk = c
	r.position = c.Position()
	r.effect.SetChunkPosition(r.position)
	r.initialized = true
	return nil
}

// SetBlock overwrites one slot in place. The fill pointer does not
// move and tombstone bookkeeping is untouched; this is a raw write.
func (r *renderer) SetBlock(rec BlockRecord, index int) error {
	if err := r.mutable("set block"); err != nil {
		return err
	}
	if index < 0 || index >= r.Capacity() {
		return fmt.Errorf("set block %d of %d: %w", index, r.Capacity(), ErrSlotOutOfRange)
	}
	r.writeSlot(rec, index)
	return nil
}

// AddBlock writes rec at the current fill pointer and advances it,
// returning the slot used. The returned index is the block's stable
// handle until the next rebuild. A full buffer fails with ErrBufferFull
// unless rebuildIfNeeded permits an internal rebuild, which compacts
// tombstones and grows per the renderer's policy.
func (r *renderer) AddBlock(rec BlockRecord, rebuildIfNeeded bool) (int, error) {
	if err := r.mutable("add block"); err != nil {
		return 0, err
	}
	if r.FreeBlocks() == 0 {
		if !rebuildIfNeeded {
			return 0, fmt.Errorf("add block: %w", ErrBufferFull)
		}
		required := r.liveCount() + 1
		if err := r.reallocate(r.grow(r.Capacity(), required)); err != nil {
			return 0, fmt.Errorf("add block: %w", err)
		}
	}
	slot := r.fill
	r.writeSlot(rec, slot)
	r.live[slot] = true
	r.fill++
	return slot, nil
}

// RemoveBlock tombstones a slot: the block stops drawing but keeps its
// buffer space, and the fill pointer stays put. Compaction is deferred
// to Rebuild. Removing an already-tombstoned slot is a no-op.
//
// Slots freed here are never reused by AddBlock; adds keep appending at
// the fill pointer until a rebuild compacts the buffer.
func (r *renderer) RemoveBlock(index int) error {
	if err := r.mutable("remove block"); err != nil {
		return err
	}
	if index < 0 || index >= r.fill {
		return fmt.Errorf("remove block %d of %d: %w", index, r.fill, ErrSlotOutOfRange)
	}
	if !r.live[index] {
		return nil
	}
	r.live[index] = false
	off := index * FloatsPerBlock
	r.data[off+laneActive] = 0
	r.buffer.WriteRange(index, r.data[off:off+FloatsPerBlock])
	return nil
}

// Rebuild reconstructs the buffer to hold maxBlocks slots (AllBlocks =
// exactly the surviving blocks), discarding tombstones. Surviving
// blocks keep their relative order; afterwards the fill pointer equals
// the number carried over.
func (r *renderer) Rebuild(maxBlocks int) error {
	if err := r.mutable("rebuild"); err != nil {
		return err
	}
	n := r.liveCount()
	if maxBlocks == AllBlocks {
		maxBlocks = n
	}
	if maxBlocks < n {
		return fmt.Errorf("rebuild to %d slots with %d live blocks: %w",
			maxBlocks, n, ErrActiveCountRange)
	}
	if err := r.reallocate(maxBlocks); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return nil
}

// Draw applies every pass of the effect in order and submits one draw
// call per pass covering the active head of the buffer. The chunk
// transform is pushed immediately before pass application so a
// multi-chunk loop stays correct with a shared effect.
func (r *renderer) Draw() error {
	if r.disposed {
		return fmt.Errorf("draw: %w", ErrRendererDisposed)
	}
	if !r.initialized {
		return fmt.Errorf("draw: %w", ErrRendererNotInitialized)
	}
	r.effect.SetChunkPosition(r.position)
	for p := 0; p < r.effect.Passes(); p++ {
		r.effect.ApplyPass(p)
		r.buffer.Draw(r.fill)
	}
	return nil
}

// SetPosition updates the chunk transform and pushes it to the effect
// synchronously.
func (r *renderer) SetPosition(pos mgl32.Vec3) {
	r.position = pos
	r.effect.SetChunkPosition(pos)
}

func (r *renderer) FreeBlocks() int { return r.Capacity() - r.fill }

// ActiveCount returns the fill pointer: the count of contiguous slots
// at the buffer's head, tombstones included.
func (r *renderer) ActiveCount() int { return r.fill }

func (r *renderer) Capacity() int { return len(r.live) }

func (r *renderer) Initialized() bool { return r.initialized }

// Close releases the GPU buffer. Idempotent; any later operation on
// the renderer fails with ErrRendererDisposed.
func (r *renderer) Close() error {
	if r.disposed {
		return nil
	}
	if r.buffer != nil {
		r.buffer.Release()
		r.buffer = nil
	}
	r.disposed = true
	r.initialized = false
	return nil
}

func (r *renderer) mutable(op string) error {
	if r.disposed {
		return fmt.Errorf("%s: %w", op, ErrRendererDisposed)
	}
	if !r.initialized {
		return fmt.Errorf("%s: %w", op, ErrRendererNotInitialized)
	}
	return nil
}

func (r *renderer) liveCount() int {
	n := 0
	for _, ok := range r.live[:r.fill] {
		if ok {
			n++
		}
	}
	return n
}

func (r *renderer) writeSlot(rec BlockRecord, slot int) {
	x, y, z := r.chunk.Coords(slot)
	packed := rec.appendInstance(make([]float32, 0, FloatsPerBlock), x, y, z)
	off := slot * FloatsPerBlock
	copy(r.data[off:off+FloatsPerBlock], packed)
	r.buffer.WriteRange(slot, r.data[off:off+FloatsPerBlock])
}

// reallocate swaps in a fresh buffer of newCap slots holding the live
// blocks, in order, with their packed data intact. The old buffer is
// released only after the new one is allocated, so a failed allocation
// leaves the renderer untouched.
func (r *renderer) reallocate(newCap int) error {
	buf, err := r.device.NewBlockBuffer(newCap)
	if err != nil {
		return err
	}

	carried := make([]float32, 0, newCap*FloatsPerBlock)
	for i := 0; i < r.fill; i++ {
		if !r.live[i] {
			continue
		}
		off := i * FloatsPerBlock
		carried = append(carried, r.data[off:off+FloatsPerBlock]...)
	}
	n := len(carried) / FloatsPerBlock

	r.buffer.Release()
	r.buffer = buf
	r.data = append(carried, make([]float32, (newCap-n)*FloatsPerBlock)...)
	r.live = make([]bool, newCap)
	for i := 0; i < n; i++ {
		r.live[i] = true
	}
	r.fill = n
	if n > 0 {
		r.buffer.WriteRange(0, r.data[:n*FloatsPerBlock])
	}
	return nil
}
