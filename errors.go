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

import "errors"

// Kind classifies failures returned by the library.
type Kind int

const (
	// Unknown is never returned by the library, it is the kind of foreign errors
	Unknown Kind = iota
	// PoolFull all 8 slots are held by live generators
	PoolFull
	// SequenceExhausted the generator has minted its 256 identifiers
	SequenceExhausted
	// ClockError the wall clock reports time before the Unix epoch
	ClockError
	// Closed the generator has released its slot
	Closed
	// Malformed binary or string form of identifier cannot be decoded
	Malformed
)

func (k Kind) String() string {
	switch k {
	case PoolFull:
		return "pool full"
	case SequenceExhausted:
		return "sequence exhausted"
	case ClockError:
		return "clock error"
	case Closed:
		return "generator closed"
	case Malformed:
		return "malformed identifier"
	default:
		return "unknown"
	}
}

// Error is the error type of the library. Callers branch on Kind, either
// directly or through errors.Is against one of the sentinel values.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "switflake: " + e.Kind.String()
	}
	return "switflake: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel values for errors.Is
var (
	ErrPoolFull          = &Error{Kind: PoolFull}
	ErrSequenceExhausted = &Error{Kind: SequenceExhausted}
	ErrClock             = &Error{Kind: ClockError}
	ErrClosed            = &Error{Kind: Closed}
	ErrMalformed         = &Error{Kind: Malformed}
)

// KindOf returns the kind of the library error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
