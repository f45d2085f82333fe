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
	"fmt"
	"runtime"
	"time"

	"go.uber.org/atomic"
)

// counter value at which generator refuses to mint identifiers
const counterMax = 0xff

// Generator mints identifiers on behalf of a single goroutine. It holds one
// slot of the process-wide pool until Close.
//
// The local counter is never reset, a generator mints at most 255
// identifiers over its lifetime. Build a new generator to continue.
//
// Only New builds a usable generator. A zero value holds no slot, it refuses
// to mint and its Close is no-op.
type Generator struct {
	node    uint64
	slot    uint8
	counter uint8
	clock   func() time.Time
	// set by New while the slot is owned, cleared once by Close
	held    atomic.Bool
	cleanup runtime.Cleanup
}

// Option configures the generator
type Option func(*Generator)

// WithClock configures a custom wall clock
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// New creates a generator for node ⟨𝒍⟩. Only the low 12 bits of node are
// used, higher bits are silently dropped. It fails with ErrPoolFull if all
// slots are held by other generators.
//
// The caller must Close the generator to return its slot. A generator that
// becomes unreachable without Close returns the slot on garbage collection.
func New(node uint64, opts ...Option) (*Generator, error) {
	pool := slots()
	if pool.isFull() {
		return nil, ErrPoolFull
	}

	slot, err := pool.acquire()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		node:  node & nodeMask,
		slot:  slot,
		clock: time.Now,
	}
	g.held.Store(true)

	// the slot is owned by g from now on, even if an option panics
	g.cleanup = runtime.AddCleanup(g, func(slot uint8) { slots().release(slot) }, slot)

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Node returns the node identifier encoded into identifiers
func (g *Generator) Node() uint64 { return g.node }

// Slot returns the slot held by the generator
func (g *Generator) Slot() uint8 { return g.slot }

// Remaining returns number of identifiers the generator is able to mint
func (g *Generator) Remaining() int {
	if !g.held.Load() {
		return 0
	}
	return counterMax - int(g.counter)
}

// GenerateID mints next identifier
//
//	        41 bit               12 bit    3 bit   8 bit
//	|---------------------------|--------|-----|--------|
//	           ⟨𝒕⟩                  ⟨𝒍⟩     slot  counter
//
// On failure the generator state is not changed.
func (g *Generator) GenerateID() (ID, error) {
	if !g.held.Load() {
		return 0, ErrClosed
	}

	if g.counter == counterMax {
		return 0, ErrSequenceExhausted
	}

	now := g.clock()
	if now.Before(time.Unix(0, 0)) {
		return 0, &Error{Kind: ClockError, Err: fmt.Errorf("time %s is before Unix epoch", now.UTC().Format(time.RFC3339Nano))}
	}

	uid := mkID(uint64(now.UnixMilli()), g.node, uint64(g.slot), uint64(g.counter))
	g.counter++
	return uid, nil
}

// Close returns the slot to the pool. It is safe to call Close many times,
// the slot is released once.
func (g *Generator) Close() error {
	if !g.held.CompareAndSwap(true, false) {
		return nil
	}

	g.cleanup.Stop()
	slots().release(g.slot)
	return nil
}
