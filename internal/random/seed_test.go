package random

import (
	"bytes"
	"errors"
	"testing"
)

func TestSeedFromIsLittleEndian(t *testing.T) {
	got, err := SeedFrom(bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
	if err != nil {
		t.Fatalf("SeedFrom() error = %v", err)
	}
	if got != 1 {
		t.Fatalf("SeedFrom() = %d, want 1", got)
	}
}

func TestSeedFromShortRead(t *testing.T) {
	_, err := SeedFrom(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected short read error")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestSeedFromReaderError(t *testing.T) {
	if _, err := SeedFrom(failingReader{}); err == nil {
		t.Fatal("expected reader error")
	}
}

func TestResolveSeed(t *testing.T) {
	got, err := ResolveSeed(42)
	if err != nil || got != 42 {
		t.Fatalf("ResolveSeed(42) = %d, %v", got, err)
	}
	if _, err := ResolveSeed(0); err != nil {
		t.Fatalf("ResolveSeed(0) error = %v", err)
	}
}
