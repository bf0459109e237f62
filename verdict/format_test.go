package verdict

import (
	"testing"
	"time"
)

func TestFormatMemory(t *testing.T) {
	cases := map[int64]string{
		0:         Placeholder,
		1:         "1 KB",
		512:       "512 KB",
		1023:      "1023 KB",
		1024:      "1.00 MB",
		2048:      "2.00 MB",
		1<<20 - 1: "1024.00 MB",
		1 << 20:   "1.00 GB",
		1 << 21:   "2.00 GB",
		3 << 19:   "1.50 GB",
	}
	for kb, expected := range cases {
		if s := FormatMemory(kb); s != expected {
			t.Errorf("%d KB should be %q, but %q", kb, expected, s)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                      Placeholder,
		1_500_000:              "1.5 ms",
		time.Second:            "1000.0 ms",
		300 * time.Microsecond: "0.3 ms",
	}
	for d, expected := range cases {
		if s := FormatDuration(d); s != expected {
			t.Errorf("%d should be %q, but %q", int64(d), expected, s)
		}
	}
}
