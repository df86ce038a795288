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

// Package shm implements the shared memory transport between the stimulus
// Controller process and the Game process.
//
// The transport is a single memory-mapped file with a fixed byte layout:
// a validation header, a Controller->Game command mailbox, and a
// bidirectional game structure carrying trial configuration and per-tick
// telemetry. There is no queueing and no blocking: every field is an
// independently atomic word, both processes poll on their own tick loops,
// and the latest write wins.
//
// Three field disciplines are layered on top of the raw words:
//
//   - Continuous commands (rotate/zoom) are rewritten by the Controller on
//     every tick and read by the Game with no edge detection.
//   - One-shot triggers (check alignment, blank screen, stop/resume
//     rendering) are raised by the Controller on a rising input edge and
//     consumed by the Game with an atomic swap, so exactly one tick
//     observes each trigger.
//   - The reset handshake transfers the whole trial configuration: the
//     Controller writes every config field and then stores reset=true with
//     release ordering; the Game acquire-loads reset, reads the config,
//     and clears the flag with release ordering. This pairing is the only
//     cross-field ordering contract in the transport.
package shm
