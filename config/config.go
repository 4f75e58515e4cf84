package config

import "errors"

// ResizeSettings controls per-texture resizing.
type ResizeSettings struct {
	ForcePowerOf2 bool
	Scale         float32
	SizeMin       int
	SizeMax       int
}

const (
	DefaultSizeMin = 1
	DefaultSizeMax = 16 * 1024
)

// DefaultResize returns the identity resize settings.
func DefaultResize() ResizeSettings {
	return ResizeSettings{Scale: 1.0, SizeMin: DefaultSizeMin, SizeMax: DefaultSizeMax}
}

// IsDefault reports whether the settings request no resizing at all.
func (r ResizeSettings) IsDefault() bool {
	return !r.ForcePowerOf2 && r.Scale == 1.0 &&
		r.SizeMin == DefaultSizeMin && r.SizeMax == DefaultSizeMax
}

// Settings is the top-level configuration struct.  All fields have safe
// defaults so callers can start from Default() and override only what they
// need.
type Settings struct {
	// Bake texture color scale and bias into the texture, because the iOS
	// viewer currently ignores these shader inputs.
	BakeTextureColorScaleBias bool

	// Bake alpha cutoff into textures, because it's unsupported by the USD
	// preview surface spec.
	BakeAlphaCutoff bool

	// Detect non-unit-length normal maps and renormalize them.
	NormalizeNormals bool

	// Output emissive textures in linear space.
	EmissiveIsLinear bool

	// Enable the specular/glossiness to metallic/roughness conversion path.
	EmulateSpecularWorkflow bool

	// Ignore edge pixels when classifying 4-channel content, to work around
	// accidental transparency introduced by image editors at texture borders.
	FixAccidentalAlpha bool

	// If the occlusion channel is pure black, replace it with pure white.
	// The iOS viewer modulates output color by occlusion, so pure black
	// occlusion renders the whole material black.
	BlackOcclusionIsWhite bool

	// Force JPEG output whenever the effective alpha permits it.
	PreferJpeg bool

	// JPG compression quality [1=worst, 100=best].
	JpgQuality int

	// JPG compression quality for normal maps.  Usually larger than
	// JpgQuality because normal maps are more sensitive to errors.
	JpgQualityNorm int

	// JPG chroma subsampling method [0=4:4:4, 1=4:2:2, 2=4:2:0].  Grayscale
	// and normal-map textures never use chroma subsampling.
	JpgSubsamp int

	// PNG compression level [0=fastest, 9=smallest].
	PngLevel int

	// Explicit per-texture resize settings.
	ImageResize ResizeSettings

	// Limit the total size of all images after decompression.  If the total
	// exceeds this limit, images are uniformly scaled down to fit.  0
	// disables the limit.
	LimitTotalImageDecompressedSize int

	// When limiting total image size, reduce the per-axis scale by this
	// amount until a total fits.  Max value is 0.5.
	LimitTotalImageScaleStep float32
}

// Default returns Settings populated with production defaults.  The
// decompressed-size limit was chosen empirically to fit under the iOS
// viewer's (undocumented, ~200MB) texture memory ceiling.
func Default() Settings {
	return Settings{
		BakeTextureColorScaleBias:       true,
		BakeAlphaCutoff:                 true,
		NormalizeNormals:                true,
		BlackOcclusionIsWhite:           true,
		JpgQuality:                      85,
		JpgQualityNorm:                  96,
		JpgSubsamp:                      0,
		PngLevel:                        9,
		ImageResize:                     DefaultResize(),
		LimitTotalImageDecompressedSize: 160 * 1024 * 1024,
		LimitTotalImageScaleStep:        0.5,
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(s Settings) error {
	if s.JpgQuality < 1 || s.JpgQuality > 100 {
		return errors.New("config: JpgQuality must be between 1 and 100")
	}
	if s.JpgQualityNorm < 1 || s.JpgQualityNorm > 100 {
		return errors.New("config: JpgQualityNorm must be between 1 and 100")
	}
	if s.JpgSubsamp < 0 || s.JpgSubsamp > 2 {
		return errors.New("config: JpgSubsamp must be between 0 and 2")
	}
	if s.LimitTotalImageScaleStep <= 0 || s.LimitTotalImageScaleStep > 0.5 {
		return errors.New("config: LimitTotalImageScaleStep must be in (0, 0.5]")
	}
	if s.ImageResize.SizeMin <= 0 || s.ImageResize.SizeMin > s.ImageResize.SizeMax {
		return errors.New("config: ImageResize size bounds are inconsistent")
	}
	if s.ImageResize.Scale <= 0 {
		return errors.New("config: ImageResize.Scale must be positive")
	}
	return nil
}
