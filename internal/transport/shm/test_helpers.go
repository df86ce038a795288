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
	"testing"
	"time"
)

// testRegionName returns a region name unique to the running test so
// parallel packages never collide on /dev/shm paths.
func testRegionName(t *testing.T, base string) string {
	t.Helper()
	return fmt.Sprintf("%s-%s-%d", base, t.Name(), time.Now().UnixNano())
}

// createTestRegion creates a region with a unique name and registers
// cleanup so the mapping and backing file are removed even on failure.
func createTestRegion(t *testing.T, base string) *Region {
	t.Helper()

	name := testRegionName(t, base)
	RemoveRegion(name)

	region, err := CreateRegion(name)
	if err != nil {
		t.Fatalf("Failed to create test region %s: %v", name, err)
	}

	t.Cleanup(func() {
		region.Close()
		RemoveRegion(name)
	})

	return region
}

// createTestEndpoints creates a Game endpoint (region creator) and a
// Controller attached to the same region, with cleanup registered.
func createTestEndpoints(t *testing.T, base string) (*Game, *Controller) {
	t.Helper()

	name := testRegionName(t, base)
	RemoveRegion(name)

	game, err := CreateGame(name)
	if err != nil {
		t.Fatalf("Failed to create game endpoint %s: %v", name, err)
	}
	t.Cleanup(func() {
		game.Close()
		RemoveRegion(name)
	})

	ctrl, err := Connect(name)
	if err != nil {
		t.Fatalf("Failed to connect controller to %s: %v", name, err)
	}
	t.Cleanup(func() {
		ctrl.Close()
	})

	return game, ctrl
}

// testConfig returns the reference trial configuration used throughout
// the protocol tests.
func testConfig() Config {
	return Config{
		Seed:        69,
		PyramidType: PyramidType1,
		BaseRadius:  2.5,
		Height:      4.0,
		StartOrient: 0.0,
		TargetDoor:  5,
		Colors: [][]float32{
			{1.0, 0.2, 0.2, 1.0},
			{0.2, 0.5, 1.0, 1.0},
			{0.2, 1.0, 0.3, 1.0},
		},
	}
}
