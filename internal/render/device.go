package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Hengle/Bawx/internal/voxel"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Unit cube: 36 vertices of position + normal, wound counter-clockwise.
var cubeVerts = []float32{
	// -Z face
	0, 0, 0, 0, 0, -1, 1, 1, 0, 0, 0, -1, 1, 0, 0, 0, 0, -1,
	1, 1, 0, 0, 0, -1, 0, 0, 0, 0, 0, -1, 0, 1, 0, 0, 0, -1,
	// +Z face
	0, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1,
	1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1,
	// -X face
	0, 1, 1, -1, 0, 0, 0, 1, 0, -1, 0, 0, 0, 0, 0, -1, 0, 0,
	0, 0, 0, -1, 0, 0, 0, 0, 1, -1, 0, 0, 0, 1, 1, -1, 0, 0,
	// +X face
	1, 1, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0,
	1, 0, 0, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0,
	// -Y face
	0, 0, 0, 0, -1, 0, 1, 0, 0, 0, -1, 0, 1, 0, 1, 0, -1, 0,
	1, 0, 1, 0, -1, 0, 0, 0, 1, 0, -1, 0, 0, 0, 0, 0, -1, 0,
	// +Y face
	0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 1, 0, 1, 1, 0, 0, 1, 0,
	1, 1, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 1, 0,
}

const cubeVertCount = 36

// Device is the OpenGL implementation of voxel.Device. It owns the
// shared unit-cube vertex buffer every block buffer's VAO references.
// Requires a current GL 4.1 core context (instanced arrays with custom
// vertex layouts); anything less fails construction.
type Device struct {
	cubeVBO  uint32
	released bool
}

// NewDevice probes the current context and allocates the shared cube
// geometry. gl.Init must already have succeeded on this thread.
func NewDevice() (*Device, error) {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if major < 4 || (major == 4 && minor < 1) {
		return nil, fmt.Errorf("render: OpenGL %d.%d context: %w",
			major, minor, voxel.ErrDeviceCapability)
	}

	d := &Device{}
	gl.GenBuffers(1, &d.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVerts)*4, gl.Ptr(cubeVerts), gl.STATIC_DRAW)
	return d, nil
}

// NewBlockBuffer allocates an instance buffer of capacity slots and a
// VAO wiring the cube geometry plus per-instance block attributes.
func (d *Device) NewBlockBuffer(capacity int) (voxel.BlockBuffer, error) {
	if d.released {
		return nil, fmt.Errorf("render: device released: %w", voxel.ErrDeviceCapability)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("render: buffer capacity %d: %w", capacity, voxel.ErrSlotOutOfRange)
	}

	b := &blockBuffer{capacity: capacity}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)

	// Cube geometry: aVert, aNormal.
	gl.BindBuffer(gl.ARRAY_BUFFER, d.cubeVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, glOffset(3*4))

	// Instance slots: aBlockPos, aBlockAttr. One slot per block record.
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if capacity > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, capacity*voxel.BlockStride, nil, gl.DYNAMIC_DRAW)
	}
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, voxel.BlockStride, glOffset(0))
	gl.VertexAttribDivisor(2, 1)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, voxel.BlockStride, glOffset(3*4))
	gl.VertexAttribDivisor(3, 1)

	gl.BindVertexArray(0)
	return b, nil
}

// Release frees the shared cube geometry. Buffers created by the device
// keep working until they are released themselves; no new buffers can
// be created afterwards.
func (d *Device) Release() {
	if d.released {
		return
	}
	gl.DeleteBuffers(1, &d.cubeVBO)
	d.released = true
}

type blockBuffer struct {
	vao      uint32
	vbo      uint32
	capacity int
	released bool
}

func (b *blockBuffer) Capacity() int { return b.capacity }

func (b *blockBuffer) WriteRange(slot int, data []float32) {
	if b.released || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, slot*voxel.BlockStride, len(data)*4, gl.Ptr(data))
}

func (b *blockBuffer) Draw(count int) {
	if b.released || count <= 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, cubeVertCount, int32(count))
}

func (b *blockBuffer) Release() {
	if b.released {
		return
	}
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.released = true
}
