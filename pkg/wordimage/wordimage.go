// Package wordimage encodes and decodes the little-endian word stream
// pkg/assembler produces and pkg/machine loads, the on-disk memory
// image format shared between the two.
package wordimage

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes words to w as little-endian uint16s, the same layout
// CPU.Load expects.
func Encode(w io.Writer, words []uint16) error {
	buf := make([]byte, 2*len(words))
	for i, v := range words {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	_, err := w.Write(buf)
	return err
}

// Decode reads a little-endian word stream from r. An odd number of
// trailing bytes is a format error.
func Decode(r io.Reader) ([]uint16, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("wordimage: odd byte count %d", len(raw))
	}
	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return words, nil
}
