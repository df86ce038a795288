/*
 * Copyright 2025 The monkeyshm Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shm

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Memory layout constants.
//
// Both processes compile these from the same definitions; there is no
// runtime layout negotiation beyond the header check in OpenRegion. Every
// field is a 32- or 64-bit word so that each one is individually atomic on
// all supported platforms. Booleans occupy a full word for the same reason.
const (
	// Magic bytes identifying a monkeyshm region.
	RegionMagic = "MNKYSHM\x00"

	// Current layout version. Bump on any change to the structures below.
	LayoutVersion = uint32(1)

	// RegionHeaderSize is the size of the validation header at offset 0.
	RegionHeaderSize = 32

	// CommandsOffset is the byte offset of the Commands mailbox.
	CommandsOffset = 32

	// CommandsSize is the size of Commands: 9 flag words padded to 40
	// bytes so GameState starts 8-byte aligned.
	CommandsSize = 40

	// GameStateOffset is the byte offset of the GameState structure.
	GameStateOffset = 72

	// GameStateSize is the size of GameState (8-byte aligned).
	GameStateSize = 136

	// RegionSize is the total size of the backing file.
	RegionSize = RegionHeaderSize + CommandsSize + GameStateSize
)

// Sentinel values for optional telemetry floats. Alignment is a cosine in
// [-1, 1], so 2.0 is unreachable; a win time is always positive, so 0.0
// marks "not yet won".
const (
	AlignmentNone = float32(2.0)
	WinTimeNone   = float32(0.0)
)

// RegionHeader is the fixed validation header at offset 0 of the region.
// The creator writes it once; openers refuse to proceed on any mismatch
// instead of silently misinterpreting the bytes that follow.
type RegionHeader struct {
	magic     [8]byte // 0x00: "MNKYSHM\0"
	version   uint32  // 0x08: layout version
	flags     uint32  // 0x0C: reserved
	totalSize uint64  // 0x10: total region size in bytes
	reserved  [8]byte // 0x18-0x1F: reserved/padding to 32B
}

// Magic returns the magic bytes.
func (h *RegionHeader) Magic() [8]byte {
	return h.magic
}

// SetMagic sets the magic bytes.
func (h *RegionHeader) SetMagic(magic [8]byte) {
	h.magic = magic
}

// Version returns the layout version.
func (h *RegionHeader) Version() uint32 {
	return atomic.LoadUint32(&h.version)
}

// SetVersion sets the layout version.
func (h *RegionHeader) SetVersion(version uint32) {
	atomic.StoreUint32(&h.version, version)
}

// TotalSize returns the total region size recorded by the creator.
func (h *RegionHeader) TotalSize() uint64 {
	return atomic.LoadUint64(&h.totalSize)
}

// SetTotalSize sets the total region size.
func (h *RegionHeader) SetTotalSize(size uint64) {
	atomic.StoreUint64(&h.totalSize, size)
}

// ValidateRegionHeader checks a mapped header against the compiled-in
// layout. A failure means the two processes were not built from the same
// layout definitions and the mapping must not be used.
func ValidateRegionHeader(h *RegionHeader) error {
	if h.Magic() != regionMagicBytes() {
		return fmt.Errorf("%w: bad magic bytes", ErrLayoutMismatch)
	}
	if v := h.Version(); v != LayoutVersion {
		return fmt.Errorf("%w: layout version %d, expected %d", ErrLayoutMismatch, v, LayoutVersion)
	}
	if s := h.TotalSize(); s != RegionSize {
		return fmt.Errorf("%w: region size %d, expected %d", ErrLayoutMismatch, s, RegionSize)
	}
	return nil
}

func regionMagicBytes() [8]byte {
	return [8]byte{'M', 'N', 'K', 'Y', 'S', 'H', 'M', 0}
}

// Commands is the one-way Controller->Game command mailbox. Each flag is
// an independently atomic word: rotate/zoom are continuous (level
// triggered, rewritten every Controller tick), the rest are one-shot
// triggers consumed by the Game, and reset is the config handshake flag.
type Commands struct {
	rotateLeft      uint32 // 0x00: continuous, rotate pyramid left
	rotateRight     uint32 // 0x04: continuous, rotate pyramid right
	zoomIn          uint32 // 0x08: continuous, zoom camera in
	zoomOut         uint32 // 0x0C: continuous, zoom camera out
	checkAlignment  uint32 // 0x10: one-shot, run an alignment check
	reset           uint32 // 0x14: handshake, apply pending config
	blankScreen     uint32 // 0x18: one-shot, black out the screen
	stopRendering   uint32 // 0x1C: one-shot, pause rendering
	resumeRendering uint32 // 0x20: one-shot, resume rendering
	pad             uint32 // 0x24: padding to 40B
}

// RotateLeft reports whether rotate-left is currently held.
func (c *Commands) RotateLeft() bool {
	return atomic.LoadUint32(&c.rotateLeft) != 0
}

// SetRotateLeft sets the rotate-left flag.
func (c *Commands) SetRotateLeft(v bool) {
	atomic.StoreUint32(&c.rotateLeft, boolWord(v))
}

// RotateRight reports whether rotate-right is currently held.
func (c *Commands) RotateRight() bool {
	return atomic.LoadUint32(&c.rotateRight) != 0
}

// SetRotateRight sets the rotate-right flag.
func (c *Commands) SetRotateRight(v bool) {
	atomic.StoreUint32(&c.rotateRight, boolWord(v))
}

// ZoomIn reports whether zoom-in is currently held.
func (c *Commands) ZoomIn() bool {
	return atomic.LoadUint32(&c.zoomIn) != 0
}

// SetZoomIn sets the zoom-in flag.
func (c *Commands) SetZoomIn(v bool) {
	atomic.StoreUint32(&c.zoomIn, boolWord(v))
}

// ZoomOut reports whether zoom-out is currently held.
func (c *Commands) ZoomOut() bool {
	return atomic.LoadUint32(&c.zoomOut) != 0
}

// SetZoomOut sets the zoom-out flag.
func (c *Commands) SetZoomOut(v bool) {
	atomic.StoreUint32(&c.zoomOut, boolWord(v))
}

// RaiseCheckAlignment raises the check-alignment trigger.
func (c *Commands) RaiseCheckAlignment() {
	atomic.StoreUint32(&c.checkAlignment, 1)
}

// ConsumeCheckAlignment reads and clears the check-alignment trigger.
func (c *Commands) ConsumeCheckAlignment() bool {
	return atomic.SwapUint32(&c.checkAlignment, 0) != 0
}

// RaiseBlankScreen raises the blank-screen trigger.
func (c *Commands) RaiseBlankScreen() {
	atomic.StoreUint32(&c.blankScreen, 1)
}

// ConsumeBlankScreen reads and clears the blank-screen trigger.
func (c *Commands) ConsumeBlankScreen() bool {
	return atomic.SwapUint32(&c.blankScreen, 0) != 0
}

// RaiseStopRendering raises the stop-rendering trigger.
func (c *Commands) RaiseStopRendering() {
	atomic.StoreUint32(&c.stopRendering, 1)
}

// ConsumeStopRendering reads and clears the stop-rendering trigger.
func (c *Commands) ConsumeStopRendering() bool {
	return atomic.SwapUint32(&c.stopRendering, 0) != 0
}

// RaiseResumeRendering raises the resume-rendering trigger.
func (c *Commands) RaiseResumeRendering() {
	atomic.StoreUint32(&c.resumeRendering, 1)
}

// ConsumeResumeRendering reads and clears the resume-rendering trigger.
func (c *Commands) ConsumeResumeRendering() bool {
	return atomic.SwapUint32(&c.resumeRendering, 0) != 0
}

// ResetRaised reports whether a reset is pending. Go's atomic loads carry
// at least acquire ordering, so a true result makes every config field
// written before the matching RaiseReset visible to the caller.
func (c *Commands) ResetRaised() bool {
	return atomic.LoadUint32(&c.reset) != 0
}

// RaiseReset raises the reset handshake flag. The store carries release
// ordering: config fields written before it are published with it. Callers
// must have finished writing the config fields first.
func (c *Commands) RaiseReset() {
	atomic.StoreUint32(&c.reset, 1)
}

// ClearReset clears the reset handshake flag after the config has been
// consumed. Clearing an already-clear flag is a no-op.
func (c *Commands) ClearReset() {
	atomic.StoreUint32(&c.reset, 0)
}

// GameState is the bidirectional structure: config fields are written by
// the Controller before a reset and read once by the Game on consumption;
// state fields are written by the Game every tick and read at will by the
// Controller. Floats travel as IEEE-754 bit patterns in uint32 words so
// that every slot stays a plain integer atomic; conversion is exact bit
// reinterpretation, never a numeric cast.
type GameState struct {
	// Config fields (Controller writes, Game reads on reset).
	seed        uint64     // 0x00: procedural generation seed
	pyramidType uint32     // 0x08: 0=Type1, 1=Type2
	baseRadius  uint32     // 0x0C: pyramid base radius (f32 bits)
	height      uint32     // 0x10: pyramid height (f32 bits)
	startOrient uint32     // 0x14: start orientation, radians (f32 bits)
	targetDoor  uint32     // 0x18: target door index
	colors      [12]uint32 // 0x1C-0x4B: 3 faces x RGBA (f32 bits)

	// State fields (Game writes every tick, Controller reads).
	phase        uint32 // 0x4C: 0=Playing, 1=Won
	frameNumber  uint64 // 0x50: monotonic per session, zeroed on reset
	elapsedSecs  uint32 // 0x58: seconds since round start (f32 bits)
	cameraRadius uint32 // 0x5C: camera orbit radius (f32 bits)
	cameraX      uint32 // 0x60: camera position X (f32 bits)
	cameraY      uint32 // 0x64: camera position Y (f32 bits)
	cameraZ      uint32 // 0x68: camera position Z (f32 bits)
	pyramidYaw   uint32 // 0x6C: pyramid yaw, radians (f32 bits)
	attempts     uint32 // 0x70: alignment check counter
	alignment    uint32 // 0x74: cosine alignment (f32 bits; 2.0 = none)
	isAnimating  uint32 // 0x78: door animation in progress
	hasWon       uint32 // 0x7C: player has won
	winTime      uint32 // 0x80: win time in seconds (f32 bits; 0.0 = none)
	pad          uint32 // 0x84: padding to 136B
}

// Seed returns the config seed.
func (g *GameState) Seed() uint64 {
	return atomic.LoadUint64(&g.seed)
}

// SetSeed sets the config seed.
func (g *GameState) SetSeed(seed uint64) {
	atomic.StoreUint64(&g.seed, seed)
}

// PyramidType returns the pyramid type code.
func (g *GameState) PyramidType() uint32 {
	return atomic.LoadUint32(&g.pyramidType)
}

// SetPyramidType sets the pyramid type code.
func (g *GameState) SetPyramidType(t uint32) {
	atomic.StoreUint32(&g.pyramidType, t)
}

// BaseRadius returns the pyramid base radius.
func (g *GameState) BaseRadius() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.baseRadius))
}

// SetBaseRadius sets the pyramid base radius.
func (g *GameState) SetBaseRadius(v float32) {
	atomic.StoreUint32(&g.baseRadius, math.Float32bits(v))
}

// Height returns the pyramid height.
func (g *GameState) Height() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.height))
}

// SetHeight sets the pyramid height.
func (g *GameState) SetHeight(v float32) {
	atomic.StoreUint32(&g.height, math.Float32bits(v))
}

// StartOrient returns the start orientation in radians.
func (g *GameState) StartOrient() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.startOrient))
}

// SetStartOrient sets the start orientation in radians.
func (g *GameState) SetStartOrient(v float32) {
	atomic.StoreUint32(&g.startOrient, math.Float32bits(v))
}

// TargetDoor returns the target door index.
func (g *GameState) TargetDoor() uint32 {
	return atomic.LoadUint32(&g.targetDoor)
}

// SetTargetDoor sets the target door index.
func (g *GameState) SetTargetDoor(i uint32) {
	atomic.StoreUint32(&g.targetDoor, i)
}

// Color returns face color channel i (0..11, face-major RGBA).
func (g *GameState) Color(i int) float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.colors[i]))
}

// SetColor sets face color channel i (0..11, face-major RGBA).
func (g *GameState) SetColor(i int, v float32) {
	atomic.StoreUint32(&g.colors[i], math.Float32bits(v))
}

// Phase returns the phase code.
func (g *GameState) Phase() uint32 {
	return atomic.LoadUint32(&g.phase)
}

// SetPhase sets the phase code.
func (g *GameState) SetPhase(p uint32) {
	atomic.StoreUint32(&g.phase, p)
}

// FrameNumber returns the session frame counter.
func (g *GameState) FrameNumber() uint64 {
	return atomic.LoadUint64(&g.frameNumber)
}

// SetFrameNumber sets the session frame counter.
func (g *GameState) SetFrameNumber(n uint64) {
	atomic.StoreUint64(&g.frameNumber, n)
}

// ElapsedSecs returns seconds since round start.
func (g *GameState) ElapsedSecs() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.elapsedSecs))
}

// SetElapsedSecs sets seconds since round start.
func (g *GameState) SetElapsedSecs(v float32) {
	atomic.StoreUint32(&g.elapsedSecs, math.Float32bits(v))
}

// CameraRadius returns the camera orbit radius.
func (g *GameState) CameraRadius() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.cameraRadius))
}

// SetCameraRadius sets the camera orbit radius.
func (g *GameState) SetCameraRadius(v float32) {
	atomic.StoreUint32(&g.cameraRadius, math.Float32bits(v))
}

// CameraX returns the camera X position.
func (g *GameState) CameraX() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.cameraX))
}

// SetCameraX sets the camera X position.
func (g *GameState) SetCameraX(v float32) {
	atomic.StoreUint32(&g.cameraX, math.Float32bits(v))
}

// CameraY returns the camera Y position.
func (g *GameState) CameraY() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.cameraY))
}

// SetCameraY sets the camera Y position.
func (g *GameState) SetCameraY(v float32) {
	atomic.StoreUint32(&g.cameraY, math.Float32bits(v))
}

// CameraZ returns the camera Z position.
func (g *GameState) CameraZ() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.cameraZ))
}

// SetCameraZ sets the camera Z position.
func (g *GameState) SetCameraZ(v float32) {
	atomic.StoreUint32(&g.cameraZ, math.Float32bits(v))
}

// PyramidYaw returns the pyramid yaw in radians.
func (g *GameState) PyramidYaw() float32 {
	return math.Float32frombits(atomic.LoadUint32(&g.pyramidYaw))
}

// SetPyramidYaw sets the pyramid yaw in radians.
func (g *GameState) SetPyramidYaw(v float32) {
	atomic.StoreUint32(&g.pyramidYaw, math.Float32bits(v))
}

// Attempts returns the alignment check counter.
func (g *GameState) Attempts() uint32 {
	return atomic.LoadUint32(&g.attempts)
}

// SetAttempts sets the alignment check counter.
func (g *GameState) SetAttempts(n uint32) {
	atomic.StoreUint32(&g.attempts, n)
}

// AlignmentBits returns the raw alignment bit pattern.
func (g *GameState) AlignmentBits() uint32 {
	return atomic.LoadUint32(&g.alignment)
}

// SetAlignmentBits stores a raw alignment bit pattern.
func (g *GameState) SetAlignmentBits(bits uint32) {
	atomic.StoreUint32(&g.alignment, bits)
}

// IsAnimating reports whether a door animation is in progress.
func (g *GameState) IsAnimating() bool {
	return atomic.LoadUint32(&g.isAnimating) != 0
}

// SetIsAnimating sets the animating flag.
func (g *GameState) SetIsAnimating(v bool) {
	atomic.StoreUint32(&g.isAnimating, boolWord(v))
}

// HasWon reports whether the player has won.
func (g *GameState) HasWon() bool {
	return atomic.LoadUint32(&g.hasWon) != 0
}

// SetHasWon sets the won flag.
func (g *GameState) SetHasWon(v bool) {
	atomic.StoreUint32(&g.hasWon, boolWord(v))
}

// WinTimeBits returns the raw win time bit pattern.
func (g *GameState) WinTimeBits() uint32 {
	return atomic.LoadUint32(&g.winTime)
}

// SetWinTimeBits stores a raw win time bit pattern.
func (g *GameState) SetWinTimeBits(bits uint32) {
	atomic.StoreUint32(&g.winTime, bits)
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
