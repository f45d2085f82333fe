//
//   Copyright 2026 rubberove, All Rights Reserved
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

package switflake

import "fmt"

// alphabet is ordered by ASCII code so that encoded strings sort as numbers
const alphabet = ".0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// 64 bits are encoded as 11 symbols of 6 bits, the leading symbol carries 4 bits
const encodedLen = 11

func encode64(uid uint64) string {
	b := make([]byte, encodedLen)
	for i := 0; i < encodedLen; i++ {
		shift := uint(6 * (encodedLen - 1 - i))
		b[i] = alphabet[(uid>>shift)&0x3f]
	}
	return string(b)
}

func decode64(val string) (uint64, error) {
	if len(val) != encodedLen {
		return 0, &Error{Kind: Malformed, Err: fmt.Errorf("invalid length %d of %q", len(val), val)}
	}

	var uid uint64
	for i := 0; i < encodedLen; i++ {
		x := val[i]
		var v uint64
		switch {
		case x == '.':
			v = 0
		case x >= '0' && x <= '9':
			v = uint64(x-'0') + 1
		case x >= 'A' && x <= 'Z':
			v = uint64(x-'A') + 11
		case x == '_':
			v = 37
		case x >= 'a' && x <= 'z':
			v = uint64(x-'a') + 38
		default:
			return 0, &Error{Kind: Malformed, Err: fmt.Errorf("invalid symbol %q in %q", x, val)}
		}

		if i == 0 && v > 0xf {
			return 0, &Error{Kind: Malformed, Err: fmt.Errorf("value %q overflows 64 bits", val)}
		}
		uid = uid<<6 | v
	}

	return uid, nil
}
