package utils

import "testing"

func TestPower2(t *testing.T) {
	tests := []struct {
		v           uint32
		ceil, floor uint32
	}{
		{1, 1, 1},
		{2, 2, 2},
		{3, 4, 2},
		{5, 8, 4},
		{64, 64, 64},
		{65, 128, 64},
		{1000, 1024, 512},
	}
	for _, tc := range tests {
		if got := Power2Ceil(tc.v); got != tc.ceil {
			t.Errorf("Power2Ceil(%d) = %d, want %d", tc.v, got, tc.ceil)
		}
		if got := Power2Floor(tc.v); got != tc.floor {
			t.Errorf("Power2Floor(%d) = %d, want %d", tc.v, got, tc.floor)
		}
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, align, want int
	}{
		{0, 64, 0},
		{1, 64, 64},
		{64, 64, 64},
		{65, 64, 128},
		{100, 4, 100},
		{101, 4, 104},
	}
	for _, tc := range tests {
		if got := AlignUp(tc.v, tc.align); got != tc.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tc.v, tc.align, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 10); got != 5 {
		t.Errorf("Clamp(5,1,10) = %d", got)
	}
	if got := Clamp(-5, 1, 10); got != 1 {
		t.Errorf("Clamp(-5,1,10) = %d", got)
	}
	if got := Clamp(50, 1, 10); got != 10 {
		t.Errorf("Clamp(50,1,10) = %d", got)
	}
}
