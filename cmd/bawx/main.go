package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Hengle/Bawx/internal/render"
	"github.com/Hengle/Bawx/internal/voxel"
)

func main() {
	runtime.LockOSThread()

	window, err := render.NewWindow("Bawx")
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	if err := InitAudio(); err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (continuing without sound): %v\n", err)
	}

	// Seed from environment or clock.
	seed := time.Now().UnixNano()
	if s := os.Getenv("BAWX_SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			seed = v
		}
	}
	rng := rand.New(rand.NewSource(seed))

	device, err := render.NewDevice()
	if err != nil {
		panic(err)
	}
	defer device.Release()

	effect, err := render.NewEffect(voxel.DefaultPalette())
	if err != nil {
		panic(err)
	}
	defer effect.Release()

	renderer, err := voxel.NewGrowableRenderer(device, effect)
	if err != nil {
		panic(err)
	}

	chunk, err := voxel.NewChunk(voxel.DefaultSizeX, voxel.DefaultSizeY, voxel.DefaultSizeZ, renderer)
	if err != nil {
		panic(err)
	}
	defer chunk.Close()

	blocks := generateTerrain(chunk.SizeX(), chunk.SizeY(), chunk.SizeZ(), seed)
	if err := chunk.BuildChunk(blocks, voxel.AllBlocks, false); err != nil {
		panic(err)
	}
	chunk.SetPosition(mgl32.Vec3{
		-float32(chunk.SizeX()) / 2, 0, -float32(chunk.SizeZ()) / 2,
	})

	cam := &Camera{
		Target:   mgl32.Vec3{0, float32(chunk.SizeY()) / 2, 0},
		Distance: 36,
		Pitch:    0.5,
	}

	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		cam.Distance -= yoff * 2
		cam.Clamp()
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			placeRandomBlock(chunk, rng)
		case glfw.KeyX:
			removeRandomBlock(chunk, rng)
		case glfw.KeyB:
			// Compact tombstones, keeping room for the whole grid.
			if err := chunk.Rebuild(chunk.TotalSize()); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild: %v\n", err)
				return
			}
			PlaySound(SoundRebuild)
		}
	})

	// GL state.
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.45, 0.65, 0.85, 1.0)

	for !window.ShouldClose() {
		glfw.PollEvents()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		cam.Yaw = glfw.GetTime() * 0.2
		fbW, fbH := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbW), int32(fbH))
		effect.SetViewProjection(cam.ViewProjection(fbW, fbH))

		if err := chunk.Draw(); err != nil {
			panic(err)
		}

		window.SwapBuffers()
	}
}

// placeRandomBlock activates a random grid cell with a stone block.
func placeRandomBlock(chunk *voxel.Chunk, rng *rand.Rand) {
	if chunk.BlockCount() == 0 {
		return
	}
	index := rng.Intn(chunk.BlockCount())
	rec := voxel.BlockRecord{
		Palette:     voxel.MatStone,
		Orientation: voxel.Orientation(rng.Intn(4)),
		Shade:       255,
		Active:      true,
	}
	if err := chunk.SetBlockData(index, rec); err != nil {
		fmt.Fprintf(os.Stderr, "set block: %v\n", err)
		return
	}
	PlaySound(SoundPlace)
}

// removeRandomBlock tombstones a random slot in the active head.
func removeRandomBlock(chunk *voxel.Chunk, rng *rand.Rand) {
	if chunk.BlockCount() == 0 {
		return
	}
	index := rng.Intn(chunk.BlockCount())
	if err := chunk.RemoveBlock(index); err != nil {
		fmt.Fprintf(os.Stderr, "remove block: %v\n", err)
		return
	}
	PlaySound(SoundRemove)
}
