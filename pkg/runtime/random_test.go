package runtime

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"testing"
)

func TestReaderSourceRejectsOutOfRangeCandidates(t *testing.T) {
	// 299 needs 9 bits: two bytes with the high byte masked to one bit.
	src := NewReaderSource(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0x00}))
	got, err := src.Uniform(big.NewInt(300))
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	if got.Int64() != 256 {
		t.Fatalf("expected 256 after rejecting 511, got %s", got)
	}
}

func TestReaderSourceSingleValueRangeReadsNothing(t *testing.T) {
	src := NewReaderSource(bytes.NewReader(nil))
	got, err := src.Uniform(big.NewInt(1))
	if err != nil || got.Sign() != 0 {
		t.Fatalf("Uniform(1) = %v, %v", got, err)
	}
}

func TestReaderSourceErrors(t *testing.T) {
	src := NewReaderSource(bytes.NewReader(nil))
	if _, err := src.Uniform(big.NewInt(0)); !errors.Is(err, ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
	if _, err := src.Uniform(big.NewInt(10)); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF from exhausted reader, got %v", err)
	}
}

func TestReaderSourceHandlesHugeRanges(t *testing.T) {
	n, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10) // 2^128 + 1
	src := NewCryptoSource()
	for i := 0; i < 50; i++ {
		got, err := src.Uniform(n)
		if err != nil {
			t.Fatalf("Uniform: %v", err)
		}
		if got.Sign() < 0 || got.Cmp(n) >= 0 {
			t.Fatalf("draw %s outside [0, %s)", got, n)
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := NewSeededSource(42), NewSeededSource(42)
	n := big.NewInt(1000)
	for i := 0; i < 20; i++ {
		x, err := a.Uniform(n)
		if err != nil {
			t.Fatalf("Uniform: %v", err)
		}
		y, _ := b.Uniform(n)
		if x.Cmp(y) != 0 {
			t.Fatalf("draw %d differs: %s vs %s", i, x, y)
		}
		if x.Sign() < 0 || x.Cmp(n) >= 0 {
			t.Fatalf("draw %s outside range", x)
		}
	}
}

func TestReaderSourceIsUnbiasedOverSmallRange(t *testing.T) {
	// Every byte value once: masking to 2 bits and rejecting 3 must leave
	// each of 0, 1, 2 equally often.
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	src := NewReaderSource(bytes.NewReader(all))
	counts := make(map[int64]int)
	for {
		got, err := src.Uniform(big.NewInt(3))
		if err != nil {
			break
		}
		counts[got.Int64()]++
	}
	if counts[0] != 64 || counts[1] != 64 || counts[2] != 64 || len(counts) != 3 {
		t.Fatalf("biased counts %v", counts)
	}
}

func TestScriptedSource(t *testing.T) {
	src := NewScriptedSource(0, 2)
	if got, err := src.Uniform(big.NewInt(3)); err != nil || got.Int64() != 0 {
		t.Fatalf("first draw = %v, %v", got, err)
	}
	if _, err := src.Uniform(big.NewInt(2)); err == nil {
		t.Fatalf("expected out-of-range scripted draw to fail")
	}
	if src.Remaining() != 1 {
		t.Fatalf("rejected draw should not be consumed, remaining %d", src.Remaining())
	}
	if got, _ := src.Uniform(big.NewInt(3)); got.Int64() != 2 {
		t.Fatalf("second draw = %s", got)
	}
	if _, err := src.Uniform(big.NewInt(3)); !errors.Is(err, ErrScriptExhausted) {
		t.Fatalf("expected ErrScriptExhausted, got %v", err)
	}
}
