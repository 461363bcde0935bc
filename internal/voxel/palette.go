package voxel

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	r := clamp(int(c.R)+dr, 0, 255)
	g := clamp(int(c.G)+dg, 0, 255)
	b := clamp(int(c.B)+db, 0, 255)
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// Vec3 returns the colour as normalized float components, the form the
// effect uploads to its palette uniform array.
func (c RGB) Vec3() [3]float32 {
	return [3]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
	}
}

// Palette is an ordered, index-addressable colour sequence shared
// read-only across chunks. Block records address it by index.
type Palette []RGB

// Material indices into DefaultPalette.
const (
	MatAir uint8 = iota
	MatStone
	MatDirt
	MatGrass
	MatSand
	MatWater
	MatWood
	MatLeaves
	MatSnow
	MatLava
)

// DefaultPalette is the built-in material colour table.
func DefaultPalette() Palette {
	return Palette{
		MatAir:    {R: 0, G: 0, B: 0},
		MatStone:  {R: 128, G: 128, B: 128},
		MatDirt:   {R: 121, G: 85, B: 58},
		MatGrass:  {R: 94, G: 140, B: 62},
		MatSand:   {R: 214, G: 190, B: 153},
		MatWater:  {R: 52, G: 108, B: 202},
		MatWood:   {R: 102, G: 72, B: 42},
		MatLeaves: {R: 70, G: 95, B: 50},
		MatSnow:   {R: 236, G: 240, B: 244},
		MatLava:   {R: 255, G: 150, B: 70},
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
