/*

  Copyright 2026 rubberove, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

/*
Package switflake implements compact, time-ordered 64-bit identifiers in the
spirit of Twitter Snowflake (https://blog.twitter.com/engineering/en_us/a/2010/announcing-snowflake.html).
Identifiers are allocated without locks and without coordination between
goroutines of the process.

Globally unique ID is a triple ⟨𝒕, 𝒍, 𝒔⟩:

↣ ⟨𝒕⟩ millisecond timestamp is a primary dimension to roughly sort events,

↣ ⟨𝒍⟩ is node identifier supplied by the application,

↣ ⟨𝒔⟩ sequence discriminates identifiers minted within same millisecond.

# Identity Schema

	      41 bit               12 bit    3 bit   8 bit
	|---------------------------|--------|-----|--------|
	           ⟨𝒕⟩                  ⟨𝒍⟩     slot  counter

↣ ⟨𝒕⟩ is 41-bit UTC timestamp with millisecond precision since
1970-01-01T00:00:00Z. Higher bits of timestamp are dropped.

↣ ⟨𝒍⟩ is 12-bit node identifier. The library does not coordinate nodes, the
application is responsible for distinct values across processes. Higher bits
are silently truncated.

↣ ⟨𝒔⟩ is 11-bit sequence, the slot of generator followed by its local counter.
The process owns a pool of 8 slots, each live Generator holds one of them
exclusively. Identifiers of concurrent generators never collide because their
slots are disjoint. Identifiers of the same generator never collide because
the counter is strictly increasing.

# Lifetime

The local counter is not reset when the clock advances. A generator mints at
most 255 identifiers over its lifetime, afterwards GenerateID fails with
ErrSequenceExhausted and the application builds a new generator.

	g, err := switflake.New(42)
	if err != nil {
		return err
	}
	defer g.Close()

	id, err := g.GenerateID()

Close returns the slot to the pool. The pool is bounded: a 9th concurrent
generator fails with ErrPoolFull until another one is closed.
*/
package switflake
