package gltfcache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Skryldev/texture-pipeline/codec"
)

func TestFileBackedEntry(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("not really a png")
	if err := os.WriteFile(filepath.Join(dir, "tex.png"), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	c.AddFile(1, "tex.png")

	name, mime := c.ImageName(1)
	if name != "tex.png" || mime != codec.MimePNG {
		t.Errorf("ImageName = %q/%q", name, mime)
	}
	if !c.ImageExists(1) {
		t.Error("ImageExists should be true")
	}
	data, _, ok := c.ImageBytes(1)
	if !ok || !bytes.Equal(data, payload) {
		t.Error("ImageBytes mismatch")
	}
}

func TestMissingEntry(t *testing.T) {
	c := New(t.TempDir())
	c.AddFile(1, "gone.png")

	if c.ImageExists(1) {
		t.Error("ImageExists should be false for absent file")
	}
	if _, _, ok := c.ImageBytes(1); ok {
		t.Error("ImageBytes should fail for absent file")
	}
	if name, _ := c.ImageName(2); name != "" {
		t.Error("unknown id should have no name")
	}
}

func TestEmbeddedEntry(t *testing.T) {
	c := New(t.TempDir())
	payload := []byte{1, 2, 3}
	c.AddEmbedded(7, 3, codec.MimeJPEG, payload)

	name, mime := c.ImageName(7)
	if name != "bin/image3.jpg" || mime != codec.MimeJPEG {
		t.Errorf("ImageName = %q/%q, want bin/image3.jpg", name, mime)
	}
	if !c.ImageExists(7) {
		t.Error("embedded entries always exist")
	}
	data, _, ok := c.ImageBytes(7)
	if !ok || !bytes.Equal(data, payload) {
		t.Error("ImageBytes mismatch")
	}
}

func TestCopyImage(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	payload := []byte("payload")
	if err := os.WriteFile(filepath.Join(srcDir, "tex.png"), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(srcDir)
	c.AddFile(1, "tex.png")
	dst := filepath.Join(dstDir, "out.png")
	if err := c.CopyImage(1, dst); err != nil {
		t.Fatalf("CopyImage: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || !bytes.Equal(data, payload) {
		t.Error("copied payload mismatch")
	}

	if err := c.CopyImage(99, dst); err == nil {
		t.Error("copying an unknown id should fail")
	}
}

func TestPathQueries(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "tex.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(srcDir)
	c.AddFile(1, "tex.png")

	if !c.IsSourcePath(filepath.Join(srcDir, "tex.png")) {
		t.Error("IsSourcePath should match the registered file")
	}
	if c.IsSourcePath(filepath.Join(srcDir, "other.png")) {
		t.Error("IsSourcePath should not match unrelated files")
	}
	if !c.IsImageAtPath(1, srcDir, "tex.png") {
		t.Error("IsImageAtPath should match the source location")
	}
	if c.IsImageAtPath(1, srcDir, "copy.png") {
		t.Error("IsImageAtPath should not match other names")
	}
}
