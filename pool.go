//
//  Copyright 2026 rubberove, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package switflake

import (
	"math/bits"
	"sync"

	"go.uber.org/atomic"
)

// number of slots in the pool, one bit of occupancy word per slot
const slotsMax = 8

const slotsFull = uint32(1<<slotsMax) - 1

// pool of slot ⟨𝒔⟩ identifiers shared by all generators of the process.
// Bit i of the occupancy word is set iff slot i is held by a live generator.
type pool struct {
	occupied atomic.Uint32
}

// slots is the process-wide pool, created on first use and never torn down
var slots = sync.OnceValue(func() *pool { return &pool{} })

// acquire claims the lowest free slot. The CAS loop retries only when other
// goroutine has changed the word in between, the full/free decision is
// re-evaluated on every round.
func (p *pool) acquire() (uint8, error) {
	for {
		current := p.occupied.Load()
		if current&slotsFull == slotsFull {
			return 0, ErrPoolFull
		}

		slot := bits.TrailingZeros32(^current)
		if p.occupied.CompareAndSwap(current, current|1<<slot) {
			return uint8(slot), nil
		}
	}
}

// release clears the slot bit, releasing free slot is no-op
func (p *pool) release(slot uint8) {
	mask := uint32(1) << (slot % slotsMax)
	for {
		current := p.occupied.Load()
		if current&mask == 0 {
			return
		}
		if p.occupied.CompareAndSwap(current, current&^mask) {
			return
		}
	}
}

// isFull is advisory, only acquire gives authoritative answer
func (p *pool) isFull() bool {
	return p.occupied.Load()&slotsFull == slotsFull
}

func (p *pool) inUse() int {
	return bits.OnesCount32(p.occupied.Load() & slotsFull)
}

// SlotsInUse returns number of slots currently held by live generators.
// The value is a point-in-time snapshot.
func SlotsInUse() int { return slots().inUse() }
