package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"quality zero", func(s *Settings) { s.JpgQuality = 0 }},
		{"quality too high", func(s *Settings) { s.JpgQuality = 101 }},
		{"norm quality zero", func(s *Settings) { s.JpgQualityNorm = 0 }},
		{"subsamp out of range", func(s *Settings) { s.JpgSubsamp = 3 }},
		{"scale step zero", func(s *Settings) { s.LimitTotalImageScaleStep = 0 }},
		{"scale step too large", func(s *Settings) { s.LimitTotalImageScaleStep = 0.75 }},
		{"size min zero", func(s *Settings) { s.ImageResize.SizeMin = 0 }},
		{"size bounds inverted", func(s *Settings) { s.ImageResize.SizeMin = 32; s.ImageResize.SizeMax = 16 }},
		{"resize scale zero", func(s *Settings) { s.ImageResize.Scale = 0 }},
	}
	for _, tc := range tests {
		cfg := Default()
		tc.mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestResizeSettingsIsDefault(t *testing.T) {
	if !DefaultResize().IsDefault() {
		t.Error("DefaultResize should be default")
	}
	r := DefaultResize()
	r.Scale = 0.5
	if r.IsDefault() {
		t.Error("scaled settings should not be default")
	}
}
