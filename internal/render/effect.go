package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Hengle/Bawx/internal/voxel"
)

// Pass indices; opaque must run before transparent.
const (
	PassOpaque = iota
	PassTransparent
	passCount
)

// Effect is the OpenGL render effect for block buffers: one program per
// pass, a shared palette uniform array, and per-chunk transform state.
// The palette may be shared read-only across many chunks; the chunk
// position is pushed immediately before each chunk's own draw.
type Effect struct {
	programs [passCount]uint32

	uViewProj [passCount]int32
	uChunkPos [passCount]int32
	uPalette  [passCount]int32

	released bool
}

// NewEffect links the pass programs and uploads the palette. A missing
// palette is rejected here, at construction, not at first draw.
func NewEffect(palette voxel.Palette) (*Effect, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("effect: %w", voxel.ErrEmptyPalette)
	}
	if len(palette) > voxel.MaxPaletteSize {
		return nil, fmt.Errorf("effect: palette %d entries, uniform holds %d: %w",
			len(palette), voxel.MaxPaletteSize, voxel.ErrSlotOutOfRange)
	}

	opaque, err := linkProgram(blockVertSrc, blockOpaqueFragSrc)
	if err != nil {
		return nil, fmt.Errorf("opaque program: %w", err)
	}
	transparent, err := linkProgram(blockVertSrc, blockTransparentFragSrc)
	if err != nil {
		gl.DeleteProgram(opaque)
		return nil, fmt.Errorf("transparent program: %w", err)
	}

	e := &Effect{programs: [passCount]uint32{opaque, transparent}}
	for i, prog := range e.programs {
		gl.UseProgram(prog)
		e.uViewProj[i] = gl.GetUniformLocation(prog, gl.Str("uViewProj\x00"))
		e.uChunkPos[i] = gl.GetUniformLocation(prog, gl.Str("uChunkPosition\x00"))
		e.uPalette[i] = gl.GetUniformLocation(prog, gl.Str("uPalette\x00"))
	}

	if err := e.SetPalette(palette); err != nil {
		e.Release()
		return nil, err
	}
	e.SetViewProjection(mgl32.Ident4())
	return e, nil
}

// Passes returns the pass count. Iteration order is part of the
// contract: opaque first, then transparent blending over it.
func (e *Effect) Passes() int { return passCount }

// ApplyPass makes pass i current, including its blend/depth state.
func (e *Effect) ApplyPass(i int) {
	gl.UseProgram(e.programs[i])
	if i == PassTransparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

// SetPalette uploads the colour table to every pass program.
func (e *Effect) SetPalette(palette voxel.Palette) error {
	if len(palette) == 0 {
		return fmt.Errorf("effect: %w", voxel.ErrEmptyPalette)
	}
	if len(palette) > voxel.MaxPaletteSize {
		return fmt.Errorf("effect: palette %d entries, uniform holds %d: %w",
			len(palette), voxel.MaxPaletteSize, voxel.ErrSlotOutOfRange)
	}
	flat := make([]float32, 0, len(palette)*3)
	for _, c := range palette {
		v := c.Vec3()
		flat = append(flat, v[0], v[1], v[2])
	}
	for i, prog := range e.programs {
		gl.UseProgram(prog)
		gl.Uniform3fv(e.uPalette[i], int32(len(palette)), &flat[0])
	}
	return nil
}

// SetChunkPosition pushes the per-chunk transform to every pass program.
func (e *Effect) SetChunkPosition(pos mgl32.Vec3) {
	for i, prog := range e.programs {
		gl.UseProgram(prog)
		gl.Uniform3f(e.uChunkPos[i], pos.X(), pos.Y(), pos.Z())
	}
}

// SetViewProjection sets the combined camera matrix on every pass program.
func (e *Effect) SetViewProjection(m mgl32.Mat4) {
	for i, prog := range e.programs {
		gl.UseProgram(prog)
		gl.UniformMatrix4fv(e.uViewProj[i], 1, false, &m[0])
	}
}

// Release deletes the pass programs. Idempotent.
func (e *Effect) Release() {
	if e.released {
		return
	}
	for _, prog := range e.programs {
		if prog != 0 {
			gl.DeleteProgram(prog)
		}
	}
	e.released = true
}
