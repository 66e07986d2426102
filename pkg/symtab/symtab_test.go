package symtab

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestWriteReadRoundTrip(t *testing.T) {
	is := is.New(t)
	symbols := map[string]uint16{"START": 0, "LOOP": 4, "DONE": 8}

	var buf bytes.Buffer
	is.NoErr(Write(&buf, symbols))

	got, err := Read(&buf)
	is.NoErr(err)
	is.Equal(got, symbols)
}

func TestWriteOrdersByAddressThenName(t *testing.T) {
	is := is.New(t)
	symbols := map[string]uint16{"B": 4, "A": 4, "Z": 0}

	var buf bytes.Buffer
	is.NoErr(Write(&buf, symbols))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(lines, []string{"0x0000 Z", "0x0004 A", "0x0004 B"})
}

func TestReadSkipsBlankAndCommentLines(t *testing.T) {
	is := is.New(t)
	src := "# a comment\n\n0x0010 START\n"
	got, err := Read(strings.NewReader(src))
	is.NoErr(err)
	is.Equal(got, map[string]uint16{"START": 0x10})
}

func TestReadRejectsMalformedLine(t *testing.T) {
	_, err := Read(strings.NewReader("0x0010 START extra\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
}

func TestLookupPrefersSmallestName(t *testing.T) {
	is := is.New(t)
	symbols := map[string]uint16{"B": 4, "A": 4}
	name, ok := Lookup(symbols, 4)
	is.True(ok)
	is.Equal(name, "A")
}

func TestLookupMiss(t *testing.T) {
	is := is.New(t)
	_, ok := Lookup(map[string]uint16{"A": 4}, 8)
	is.True(!ok)
}
