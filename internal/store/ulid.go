package store

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Revision IDs are 26-character Crockford Base32 ULIDs in lowercase so
// they sort lexicographically by save time and sit comfortably next to
// slugs in URLs and filenames.

const revisionAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var (
	revMu   sync.Mutex
	revLast uint64
	revSeq  uint16
)

func newRevisionID() string {
	revMu.Lock()
	defer revMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == revLast {
		revSeq++
	} else {
		revLast = ts
		revSeq = 0
	}

	var b [16]byte
	// 48-bit millisecond timestamp, big-endian, in the first 6 bytes.
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// The sequence in bytes 6-7 keeps IDs unique within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], revSeq)

	return encodeBase32(b)
}

// encodeBase32 packs 128 bits into 26 characters, low bits last, which
// leaves the leading character holding the top 3 timestamp bits.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	acc, bits := 0, 0
	pos := len(out) - 1
	for i := len(b) - 1; i >= 0; i-- {
		acc |= int(b[i]) << bits
		bits += 8
		for bits >= 5 {
			out[pos] = revisionAlphabet[acc&31]
			acc >>= 5
			bits -= 5
			pos--
		}
	}
	out[0] = revisionAlphabet[acc&31]
	return string(out[:])
}

// revisionTime recovers the save timestamp embedded in a revision ID.
func revisionTime(id string) (time.Time, error) {
	if len(id) != 26 {
		return time.Time{}, fmt.Errorf("revision id %q: want 26 characters", id)
	}
	var ms uint64
	for i := 0; i < 10; i++ {
		v := strings.IndexByte(revisionAlphabet, id[i])
		if v < 0 {
			return time.Time{}, fmt.Errorf("revision id %q: bad character %q", id, id[i])
		}
		ms = ms<<5 | uint64(v)
	}
	return time.UnixMilli(int64(ms)), nil
}
