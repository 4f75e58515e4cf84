package core

// SourceCache is the host-owned, read-only store of source glTF image
// payloads.  Names are UTF-8 filesystem paths relative to the glTF root.
// Implementations live with the host loader; gltfcache provides a
// filesystem-backed one.
type SourceCache interface {
	// ImageName returns the source-relative name and MIME type for the
	// image, or "" when no such image record exists.  Embedded and
	// buffer-backed images receive synthetic "bin/image<N>" names.
	ImageName(id ImageID) (name, mime string)

	// ImageBytes returns the raw encoded payload, or ok=false when the
	// payload cannot be found.
	ImageBytes(id ImageID) (data []byte, mime string, ok bool)

	// ImageExists reports whether the payload for id is findable.
	ImageExists(id ImageID) bool

	// CopyImage copies the raw payload to dstPath unmodified.
	CopyImage(id ImageID, dstPath string) error

	// IsSourcePath reports whether path refers to one of the cache's own
	// source files (used for stomp protection).
	IsSourcePath(path string) bool

	// IsImageAtPath reports whether the image already resides at dir/name,
	// making a copy unnecessary.
	IsImageAtPath(id ImageID, dir, name string) bool
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}
