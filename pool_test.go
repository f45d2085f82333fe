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
	"errors"
	"sync"
	"testing"

	"github.com/fogfish/it/v2"
)

func TestPoolLowestFirst(t *testing.T) {
	p := &pool{}

	for i := 0; i < slotsMax; i++ {
		slot, err := p.acquire()
		it.Then(t).Should(
			it.True(err == nil),
			it.Equal(slot, uint8(i)),
		)
	}

	it.Then(t).Should(
		it.True(p.isFull()),
		it.Equal(p.inUse(), slotsMax),
	)

	p.release(5)
	p.release(2)

	a, _ := p.acquire()
	b, _ := p.acquire()
	it.Then(t).Should(
		it.Equal(a, uint8(2)),
		it.Equal(b, uint8(5)),
	)
}

func TestPoolFull(t *testing.T) {
	p := &pool{}
	p.occupied.Store(slotsFull)

	_, err := p.acquire()
	it.Then(t).Should(
		it.True(errors.Is(err, ErrPoolFull)),
		it.True(p.isFull()),
	)

	p.release(7)
	slot, err := p.acquire()
	it.Then(t).Should(
		it.True(err == nil),
		it.Equal(slot, uint8(7)),
	)
}

func TestPoolReleaseFree(t *testing.T) {
	p := &pool{}
	p.release(3)
	p.release(3)

	it.Then(t).Should(
		it.Equal(p.occupied.Load(), uint32(0)),
		it.Equal(p.inUse(), 0),
	)
}

func TestPoolConcurrentAcquire(t *testing.T) {
	for round := 0; round < 100; round++ {
		p := &pool{}

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			owned = map[uint8]int{}
			fails int
		)

		for i := 0; i < 2*slotsMax; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				slot, err := p.acquire()

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fails++
					return
				}
				owned[slot]++
			}()
		}
		wg.Wait()

		it.Then(t).Should(
			it.Equal(len(owned), slotsMax),
			it.Equal(fails, slotsMax),
			it.True(p.isFull()),
		)
		for _, n := range owned {
			it.Then(t).Should(it.Equal(n, 1))
		}
	}
}

func TestPoolConcurrentChurn(t *testing.T) {
	p := &pool{}

	var wg sync.WaitGroup
	for i := 0; i < slotsMax; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 1000; k++ {
				slot, err := p.acquire()
				if err != nil {
					continue
				}
				p.release(slot)
			}
		}()
	}
	wg.Wait()

	it.Then(t).Should(
		it.Equal(p.inUse(), 0),
	)
}
