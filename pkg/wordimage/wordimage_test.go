package wordimage

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	is := is.New(t)
	words := []uint16{0x1234, 0xBEEF, 0, 0xFFFF}

	var buf bytes.Buffer
	is.NoErr(Encode(&buf, words))
	is.Equal(buf.Bytes(), []byte{0x34, 0x12, 0xEF, 0xBE, 0x00, 0x00, 0xFF, 0xFF})

	got, err := Decode(&buf)
	is.NoErr(err)
	is.Equal(got, words)
}

func TestDecodeRejectsOddLength(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected an error for an odd-length image")
	}
}

func TestDecodeEmpty(t *testing.T) {
	is := is.New(t)
	got, err := Decode(bytes.NewReader(nil))
	is.NoErr(err)
	is.Equal(len(got), 0)
}
