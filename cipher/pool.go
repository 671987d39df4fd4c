package cipher

import (
	"crypto/rand"
	"io"

	"github.com/dr8co/vmask/pool"
)

// EncodedString is one masked string from the constant pool, the §4.4
// XOR-stream wrapping that keeps literal text out of the emitted source.
type EncodedString struct {
	PoolIndex int
	Key       []byte
	Data      []byte
}

// EncodePool masks every TagString and TagIdentifier entry in p with its own
// XOR key, leaving every other entry untouched — numeric/boolean constants,
// jump offsets, and function bodies carry no plaintext worth hiding.
func EncodePool(p *pool.Pool) ([]EncodedString, error) {
	var out []EncodedString
	for i, entry := range p.Entries() {
		if entry.Tag != pool.TagString && entry.Tag != pool.TagIdentifier {
			continue
		}
		key := make([]byte, keyLenFor(entry.Str))
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, err
		}
		out = append(out, EncodedString{
			PoolIndex: i,
			Key:       key,
			Data:      xorStream([]byte(entry.Str), key),
		})
	}
	return out, nil
}

func keyLenFor(s string) int {
	if len(s) == 0 {
		return 1
	}
	return len(s)
}

// DecodeString reverses one EncodedString back to its original text.
func DecodeString(e EncodedString) string {
	return string(xorStream(e.Data, e.Key))
}
