package word

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"10", 10, false},
		{"-10", -10, false},
		{"0x10", 16, false},
		{"0X1F", 31, false},
		{"0o17", 15, false},
		{"0O7", 7, false},
		{"0xFF", 255, false},
		{"", 0, true},
		{"0x", 0, true},
		{"0xG", 0, true},
		{"0o8", 0, true},
		{"abc", 0, true},
	}

	for _, c := range cases {
		got, err := ParseNumber(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseNumber(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestIsRegister(t *testing.T) {
	cases := []struct {
		in      string
		wantReg uint16
		wantOK  bool
	}{
		{"R0", 0, true},
		{"r7", 7, true},
		{"R8", 0, false},
		{"RX", 0, false},
		{"R", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		reg, ok := IsRegister(c.in)
		if ok != c.wantOK || (ok && reg != c.wantReg) {
			t.Errorf("IsRegister(%q) = (%d, %v), want (%d, %v)", c.in, reg, ok, c.wantReg, c.wantOK)
		}
	}
}

func TestUpper(t *testing.T) {
	if got := Upper("mov"); got != "MOV" {
		t.Errorf("Upper(mov) = %q", got)
	}
}
