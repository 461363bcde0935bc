package voxel

// Block instance layout (in float32 lanes).
// Each buffer slot is one instance: grid position, palette index,
// orientation, shade, active flag and one reserved lane.
const (
	FloatsPerBlock = 8
	BlockStride    = FloatsPerBlock * 4 // bytes
)

// Instance lane offsets within a slot.
const (
	lanePosX = iota
	lanePosY
	lanePosZ
	lanePalette
	laneOrientation
	laneShade
	laneActive
	laneReserved
)

// Default chunk dimensions.
const (
	DefaultSizeX = 16
	DefaultSizeY = 16
	DefaultSizeZ = 16
)

// MaxPaletteSize is the number of palette entries the effect uniform
// array is sized for.
const MaxPaletteSize = 64

// AllBlocks marks every record of a build as active (the default
// active count for BuildChunk).
const AllBlocks = -1
