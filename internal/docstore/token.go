package docstore

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Download tokens are 26-character Crockford Base32 strings: a 48-bit
// millisecond timestamp followed by 80 bits of randomness, so tokens sort
// by creation time and never collide within a process.

var (
	tokenMu sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewToken returns a fresh download token.
func NewToken() string {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// crypto/rand.Read cannot fail as of Go 1.24; it crashes the program
	// instead of returning an error.
	rand.Read(b[6:])
	// Sequence counter keeps same-millisecond tokens distinct.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 packs 128 bits into 26 Crockford Base32 characters. The
// leading character carries the top 3 bits only; the 5-bit accumulator loop
// walks the remaining 125 bits.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]

	acc := uint16(b[0] & 0x1f)
	nbits := 5 // low bits of b[0] still pending
	pos := 1
	for i := 1; i < len(b); i++ {
		acc = acc<<8 | uint16(b[i])
		nbits += 8
		for nbits >= 5 {
			nbits -= 5
			out[pos] = crockford[(acc>>uint(nbits))&0x1f]
			acc &= (1 << uint(nbits)) - 1
			pos++
		}
	}
	return string(out[:])
}
