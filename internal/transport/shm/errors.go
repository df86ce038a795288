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

import "errors"

var (
	// ErrRegionNotFound is returned by OpenRegion when the backing file
	// does not exist yet. Callers are expected to retry with backoff,
	// since the creating process may not have started.
	ErrRegionNotFound = errors.New("shm: region does not exist")

	// ErrLayoutMismatch is returned when a region's header does not match
	// the compiled-in layout (magic, version, or size). The two processes
	// were built from different layout definitions and must not proceed.
	ErrLayoutMismatch = errors.New("shm: region layout mismatch")

	// ErrInvalidShape is returned when a config's color matrix is not
	// exactly 3 faces of 4 RGBA channels. The region is left unchanged.
	ErrInvalidShape = errors.New("shm: colors must be a 3x4 matrix")

	// ErrUnsupportedPlatform is returned on platforms without a shared
	// memory mapping implementation.
	ErrUnsupportedPlatform = errors.New("shm: shared memory is not supported on this platform")
)
