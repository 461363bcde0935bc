package main

import (
	"github.com/aquilax/go-perlin"

	"github.com/Hengle/Bawx/internal/voxel"
)

// Perlin terrain parameters.
const (
	terrainAlpha   = 2.0
	terrainBeta    = 2.0
	terrainOctaves = 3
	terrainScale   = 0.09
	waterLevel     = 5
)

// generateTerrain fills a dense block array for a chunk of the given
// dimensions: every grid cell gets a record, air cells inactive. The
// slice is indexed by the chunk's row-major linearization.
func generateTerrain(sizeX, sizeY, sizeZ int, seed int64) []voxel.BlockRecord {
	noise := perlin.NewPerlin(terrainAlpha, terrainBeta, terrainOctaves, seed)

	heights := make([]int, sizeX*sizeZ)
	for z := 0; z < sizeZ; z++ {
		for x := 0; x < sizeX; x++ {
			n := noise.Noise2D(float64(x)*terrainScale, float64(z)*terrainScale)
			h := int((n*0.5 + 0.5) * float64(sizeY-1))
			heights[z*sizeX+x] = clamp(h, 1, sizeY-1)
		}
	}

	blocks := make([]voxel.BlockRecord, sizeX*sizeY*sizeZ)
	for z := 0; z < sizeZ; z++ {
		for y := 0; y < sizeY; y++ {
			for x := 0; x < sizeX; x++ {
				i := x + sizeX*(y+sizeY*z)
				blocks[i] = terrainBlock(y, heights[z*sizeX+x])
			}
		}
	}
	return blocks
}

func terrainBlock(y, height int) voxel.BlockRecord {
	switch {
	case y > height && y <= waterLevel:
		return voxel.BlockRecord{Palette: voxel.MatWater, Shade: 140, Active: true}
	case y > height:
		return voxel.BlockRecord{Palette: voxel.MatAir}
	case y == height:
		if y <= waterLevel {
			return voxel.BlockRecord{Palette: voxel.MatSand, Shade: 255, Active: true}
		}
		return voxel.BlockRecord{Palette: voxel.MatGrass, Shade: 255, Active: true}
	case y >= height-2:
		return voxel.BlockRecord{Palette: voxel.MatDirt, Shade: 255, Active: true}
	default:
		return voxel.BlockRecord{Palette: voxel.MatStone, Shade: 255, Active: true}
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
