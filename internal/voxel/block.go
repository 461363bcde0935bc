package voxel

// Orientation is a block's facing, one of the four cardinal rotations
// around the vertical axis.
type Orientation uint8

const (
	FaceNorth Orientation = iota
	FaceEast
	FaceSouth
	FaceWest
)

// BlockRecord is the fixed-layout per-voxel value copied into a GPU
// buffer slot. Its packed size (BlockStride) is constant for the
// lifetime of a renderer instance; buffers are laid out assuming
// uniform element size.
type BlockRecord struct {
	Palette     uint8       // index into the effect's palette
	Orientation Orientation // facing rotation
	Shade       uint8       // 255 = fully lit
	Active      bool        // drawn when true
}

// appendInstance packs the record plus its grid position into dst as one
// buffer slot of FloatsPerBlock lanes.
func (b BlockRecord) appendInstance(dst []float32, x, y, z int) []float32 {
	active := float32(0)
	if b.Active {
		active = 1
	}
	return append(dst,
		float32(x), float32(y), float32(z),
		float32(b.Palette),
		float32(b.Orientation),
		float32(b.Shade)/255.0,
		active,
		0, // reserved
	)
}

// recordFromInstance decodes one packed slot back into a BlockRecord.
// Inverse of appendInstance for the non-positional lanes.
func recordFromInstance(slot []float32) BlockRecord {
	return BlockRecord{
		Palette:     uint8(slot[lanePalette]),
		Orientation: Orientation(slot[laneOrientation]),
		Shade:       uint8(slot[laneShade]*255.0 + 0.5),
		Active:      slot[laneActive] != 0,
	}
}
