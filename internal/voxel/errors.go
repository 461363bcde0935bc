package voxel

import "errors"

// Failure conditions surfaced by the chunk and renderer. All of them are
// synchronous, caller-visible and never retried internally; wrap sites add
// context with %w so callers can match with errors.Is.
var (
	// Precondition violations: fixable by correcting call order.
	ErrRendererNotInitialized = errors.New("voxel: renderer not initialized")
	ErrChunkAlreadyBuilt      = errors.New("voxel: chunk already built, rebuild not requested")
	ErrChunkMismatch          = errors.New("voxel: renderer is bound to a different chunk")
	ErrRendererDisposed       = errors.New("voxel: renderer disposed")

	// Capacity violations: retry with rebuildIfNeeded or presize larger.
	ErrChunkFull  = errors.New("voxel: chunk cannot hold more blocks")
	ErrBufferFull = errors.New("voxel: buffer cannot hold more blocks, rebuild required")

	// Argument violations: never clamped.
	ErrChunkDimensions   = errors.New("voxel: chunk dimensions must be positive")
	ErrNilRenderer       = errors.New("voxel: chunk requires a renderer")
	ErrNilBlockData      = errors.New("voxel: block data is nil")
	ErrBlockDataTooLarge = errors.New("voxel: block data exceeds chunk size")
	ErrActiveCountRange  = errors.New("voxel: active count out of range")
	ErrSlotOutOfRange    = errors.New("voxel: slot index out of range")

	// Resource-capability violations: raised at construction, never deferred.
	ErrDeviceCapability = errors.New("voxel: graphics device lacks required capability")
	ErrEmptyPalette     = errors.New("voxel: palette has no entries")
)
