package dtype

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

func TestRoundTrip(t *testing.T) {
	vals := []float64{-3, 0, 1.5, 250, 1e6}
	tests := []struct {
		dt   *message.Datatype
		want []float64
	}{
		{message.NewFloat(8, false), vals},
		{message.NewFloat(8, true), vals},
		{message.NewFloat(4, true), vals},
		{message.NewInteger(4, true, false), []float64{-3, 0, 1, 250, 1e6}},
		{message.NewInteger(2, true, true), []float64{-3, 0, 1, 250, 16960}},
		{message.NewInteger(1, false, false), []float64{253, 0, 1, 250, 64}},
	}
	for _, tt := range tests {
		raw, err := Encode(vals, tt.dt)
		if err != nil {
			t.Fatalf("Encode(%v) failed: %v", tt.dt, err)
		}
		if len(raw) != len(vals)*int(tt.dt.Size) {
			t.Errorf("%v: encoded %d bytes", tt.dt, len(raw))
		}
		got, err := Float64s(raw, tt.dt)
		if err != nil {
			t.Fatalf("Float64s(%v) failed: %v", tt.dt, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v: got %v, want %v", tt.dt, got, tt.want)
		}
	}
}

func TestBigEndianBytes(t *testing.T) {
	got, err := Float64s([]byte{0x3f, 0xf8, 0, 0, 0, 0, 0, 0}, message.NewFloat(8, true))
	if err != nil || len(got) != 1 || got[0] != 1.5 {
		t.Errorf("Float64s = %v, %v", got, err)
	}
}

func TestNotNumeric(t *testing.T) {
	dt := &message.Datatype{Class: message.ClassString, Size: 8}
	if _, err := Float64s(make([]byte, 8), dt); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("err = %v, want ErrNotNumeric", err)
	}
	if err := Check(nil); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Check(nil) = %v", err)
	}
}

func TestRagged(t *testing.T) {
	if _, err := Float64s(make([]byte, 7), message.NewFloat(4, false)); err == nil {
		t.Error("expected an error for a partial element")
	}
}
