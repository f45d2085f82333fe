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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
)

// bit layout of identifier
//
//	        41 bit               12 bit    3 bit   8 bit
//	|---------------------------|--------|-----|--------|
//	           ⟨𝒕⟩                  ⟨𝒍⟩      ⟨𝒔⟩ = slot | counter
//	^                           ^        ^              ^
//	63                          23       11             0
const (
	timeBits    = 41
	nodeBits    = 12
	seqBits     = 11
	counterBits = 8

	nodeShift = seqBits
	timeShift = nodeBits + seqBits

	timeMask    = uint64(1)<<timeBits - 1
	nodeMask    = uint64(1)<<nodeBits - 1
	seqMask     = uint64(1)<<seqBits - 1
	counterMask = uint64(1)<<counterBits - 1
)

// ID is 64-bit k-ordered identifier
type ID uint64

func mkID(t, node, slot, counter uint64) ID {
	seq := (slot<<counterBits | counter) & seqMask
	return ID((t&timeMask)<<timeShift | (node&nodeMask)<<nodeShift | seq)
}

// Millis returns ⟨𝒕⟩ fraction, milliseconds since Unix epoch modulo 2⁴¹
func (uid ID) Millis() uint64 { return uint64(uid) >> timeShift & timeMask }

// Time returns ⟨𝒕⟩ fraction as wall clock time
func (uid ID) Time() time.Time { return time.UnixMilli(int64(uid.Millis())) }

// Node returns ⟨𝒍⟩ node identifier
func (uid ID) Node() uint64 { return uint64(uid) >> nodeShift & nodeMask }

// Seq returns ⟨𝒔⟩, the combined slot and counter value (low 11 bits)
func (uid ID) Seq() uint64 { return uint64(uid) & seqMask }

// Slot returns slot of the generator that has minted the identifier
func (uid ID) Slot() uint8 { return uint8(uid.Seq() >> counterBits) }

// Counter returns value of generator's local counter at the time of minting
func (uid ID) Counter() uint8 { return uint8(uid.Seq() & counterMask) }

// Bytes encodes identifier as 8 bytes big-endian
func (uid ID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(uid))
	return b
}

// String encodes identifier to lexicographically sortable string
func (uid ID) String() string { return encode64(uint64(uid)) }

// FromBytes decodes identifier from its binary form
func FromBytes(val []byte) (ID, error) {
	if len(val) != 8 {
		return 0, &Error{Kind: Malformed, Err: fmt.Errorf("expected 8 bytes, got %v", val)}
	}
	return ID(binary.BigEndian.Uint64(val)), nil
}

// FromString decodes identifier from lexicographically sortable string
func FromString(val string) (ID, error) {
	uid, err := decode64(val)
	if err != nil {
		return 0, err
	}
	return ID(uid), nil
}

// MarshalJSON encodes identifier to lexicographically sortable JSON string
func (uid ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uid.String())
}

// UnmarshalJSON decodes lexicographically sortable string to identifier
func (uid *ID) UnmarshalJSON(b []byte) error {
	var val string
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}

	v, err := FromString(val)
	if err != nil {
		return err
	}
	*uid = v
	return nil
}
