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
	"os"
	"path/filepath"
	"unsafe"
)

// Region is a mapped shared memory region. It exposes the Commands mailbox
// and GameState structure as long-lived pointers into the mapping; all
// access goes through their atomic accessors, there is no copy-out path.
type Region struct {
	file    *os.File
	mem     []byte
	path    string
	creator bool

	hdr   *RegionHeader
	cmd   *Commands
	state *GameState
}

// CreateRegion creates the named region, zeroing any stale backing file
// from a previous run, and maps it read-write. The Game process is the
// creator; a failure here is fatal to it.
func CreateRegion(name string) (*Region, error) {
	path := regionPath(name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("shm: failed to create region file %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	// Zero-fill explicitly rather than relying on truncate-extension, and
	// flush so an opener never maps a half-initialized file.
	zeroes := make([]byte, RegionSize)
	if _, err := file.Write(zeroes); err != nil {
		cleanup()
		return nil, fmt.Errorf("shm: failed to zero region file: %w", err)
	}
	if err := file.Sync(); err != nil {
		cleanup()
		return nil, fmt.Errorf("shm: failed to sync region file: %w", err)
	}

	mem, err := mmapFile(file, RegionSize)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("shm: failed to mmap region: %w", err)
	}

	r := newRegion(file, mem, path, true)

	r.hdr.SetMagic(regionMagicBytes())
	r.hdr.SetVersion(LayoutVersion)
	r.hdr.SetTotalSize(RegionSize)

	return r, nil
}

// OpenRegion maps an existing named region without reinitializing it.
// Returns ErrRegionNotFound if the creator has not made it yet, or has
// made the backing file but not yet written the header; returns
// ErrLayoutMismatch if the header does not match this binary's layout.
// The component never retries internally; retry loops belong to callers.
func OpenRegion(name string) (*Region, error) {
	path := regionPath(name)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, path)
		}
		return nil, fmt.Errorf("shm: failed to open region file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shm: failed to stat region file: %w", err)
	}
	if info.Size() < RegionSize {
		file.Close()
		return nil, fmt.Errorf("%w: file is %d bytes, expected %d", ErrLayoutMismatch, info.Size(), RegionSize)
	}

	mem, err := mmapFile(file, RegionSize)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shm: failed to mmap region: %w", err)
	}

	r := newRegion(file, mem, path, false)

	// The creator makes the file visible before it writes the header. An
	// all-zero header is that in-between state, not a layout mismatch, so
	// report it as not-found and let the caller's retry loop catch the
	// header on a later attempt.
	if headerUninitialized(r.hdr) {
		r.Close()
		return nil, fmt.Errorf("%w: %s exists but is not initialized yet", ErrRegionNotFound, path)
	}

	if err := ValidateRegionHeader(r.hdr); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func headerUninitialized(h *RegionHeader) bool {
	return h.Magic() == [8]byte{} && h.Version() == 0 && h.TotalSize() == 0
}

func newRegion(file *os.File, mem []byte, path string, creator bool) *Region {
	base := unsafe.Pointer(&mem[0])
	return &Region{
		file:    file,
		mem:     mem,
		path:    path,
		creator: creator,
		hdr:     (*RegionHeader)(base),
		cmd:     (*Commands)(unsafe.Pointer(uintptr(base) + CommandsOffset)),
		state:   (*GameState)(unsafe.Pointer(uintptr(base) + GameStateOffset)),
	}
}

// Commands returns the command mailbox view. Valid until Close.
func (r *Region) Commands() *Commands {
	return r.cmd
}

// State returns the game structure view. Valid until Close.
func (r *Region) State() *GameState {
	return r.state
}

// Creator reports whether this process zero-initialized the region.
func (r *Region) Creator() bool {
	return r.creator
}

// Path returns the backing file path.
func (r *Region) Path() string {
	return r.path
}

// Close unmaps the region and closes the backing file. The file itself is
// intentionally not removed: a late opener can still attach, and it stays
// around for postmortem inspection. Use RemoveRegion for cleanup.
func (r *Region) Close() error {
	var firstErr error

	if r.mem != nil {
		if err := munmapFile(r.mem); err != nil && firstErr == nil {
			firstErr = err
		}
		r.mem = nil
		r.hdr = nil
		r.cmd = nil
		r.state = nil
	}

	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.file = nil
	}

	return firstErr
}

// RemoveRegion deletes the backing file of a named region.
func RemoveRegion(name string) error {
	err := os.Remove(regionPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if os.IsNotExist(err) {
		return os.ErrNotExist
	}
	return nil
}

// RegionExists reports whether the named region's backing file exists.
func RegionExists(name string) bool {
	_, err := os.Stat(regionPath(name))
	return err == nil
}

// regionPath derives the backing file location from a region name. Both
// processes must use the identical name string.
func regionPath(name string) string {
	if isDevShmAvailable() {
		return filepath.Join("/dev/shm", "monkey_shm_"+name)
	}
	return filepath.Join(os.TempDir(), "monkey_shm_"+name)
}

// isDevShmAvailable checks if /dev/shm is available (preferred on Linux).
func isDevShmAvailable() bool {
	info, err := os.Stat("/dev/shm")
	if err != nil {
		return false
	}
	return info.IsDir()
}
