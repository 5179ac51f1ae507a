package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ── Artwork store ────────────────────────────────────────────
//
// Every operation acts on a single entry's file under its collection's
// .media directory and updates the in-memory link in place on success, so
// the model stays consistent with the disk without a re-scan. Failures are
// single-attempt and leave the entry untouched.

// errNoArtwork means the operation needs a linked artwork file and the entry has none.
var errNoArtwork = errors.New("no artwork linked")

// errClipboardEmpty means a paste was requested while the clipboard holds no image.
var errClipboardEmpty = errors.New("clipboard holds no image")

// artworkPerms matches the permissions NextUI itself uses for .media content.
const artworkPerms = 0644

// readClipboard is a variable so tests can substitute the clipboard source.
var readClipboard = readClipboardImage

// addOrReplaceArtwork writes image bytes to <media>/<stem><ext>, creating the
// .media dir if missing. An existing artwork file with a different extension
// is removed first so stale images never accumulate.
func addOrReplaceArtwork(entry *RomEntry, data []byte, ext string) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)

	if err := os.MkdirAll(entry.MediaDir, 0755); err != nil {
		return fmt.Errorf("creating media dir: %w", err)
	}

	dest := filepath.Join(entry.MediaDir, entry.Stem+ext)
	if entry.HasArtwork() && entry.ArtworkPath != dest {
		if err := os.Remove(entry.ArtworkPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing old artwork: %w", err)
		}
	}

	if err := os.WriteFile(dest, data, artworkPerms); err != nil {
		return fmt.Errorf("writing artwork: %w", err)
	}

	entry.ArtworkPath = dest
	entry.ArtworkSize = int64(len(data))
	log.Printf("addOrReplaceArtwork: rom=%s dest=%s size=%d", entry.FileName, dest, len(data))
	return nil
}

// importArtworkFile copies an image file from anywhere on disk into the
// entry's .media slot, keeping the source extension. The bytes are decoded
// first so a broken file is rejected before anything is written.
func importArtworkFile(entry *RomEntry, srcPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading image file: %w", err)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(srcPath), err)
	}
	return addOrReplaceArtwork(entry, data, filepath.Ext(srcPath))
}

// deleteArtwork removes the entry's artwork file and clears the link.
func deleteArtwork(entry *RomEntry) error {
	if !entry.HasArtwork() {
		return errNoArtwork
	}
	if err := os.Remove(entry.ArtworkPath); err != nil {
		return fmt.Errorf("removing artwork: %w", err)
	}
	log.Printf("deleteArtwork: rom=%s path=%s", entry.FileName, entry.ArtworkPath)
	entry.ArtworkPath = ""
	entry.ArtworkSize = 0
	return nil
}

// copyArtworkToClipboard decodes the entry's artwork and places it on the
// system clipboard as PNG.
func copyArtworkToClipboard(entry *RomEntry) error {
	if !entry.HasArtwork() {
		return errNoArtwork
	}
	img, err := imaging.Open(entry.ArtworkPath)
	if err != nil {
		return fmt.Errorf("opening artwork: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encoding artwork: %w", err)
	}
	return writeClipboardImage(buf.Bytes())
}

// pasteArtworkFromClipboard reads the clipboard image and stores it as the
// entry's artwork in the given format ("png" or "jpg").
func pasteArtworkFromClipboard(entry *RomEntry, format string) error {
	img, err := readClipboard()
	if err != nil {
		return err
	}
	if img == nil {
		return errClipboardEmpty
	}

	enc, ext := imaging.PNG, ".png"
	if format == "jpg" || format == "jpeg" {
		enc, ext = imaging.JPEG, ".jpg"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, enc); err != nil {
		return fmt.Errorf("encoding clipboard image: %w", err)
	}
	return addOrReplaceArtwork(entry, buf.Bytes(), ext)
}

// ── Orphan artwork ───────────────────────────────────────────

// adoptOrphan renames an orphaned .media file to an entry's stem, linking it
// to that ROM. The orphan keeps its own extension; any artwork the entry
// already had is removed first.
func adoptOrphan(col *Collection, orphanName string, entry *RomEntry) error {
	src := filepath.Join(col.MediaDir, orphanName)
	dest := filepath.Join(col.MediaDir, entry.Stem+strings.ToLower(filepath.Ext(orphanName)))

	if entry.HasArtwork() && entry.ArtworkPath != src && entry.ArtworkPath != dest {
		if err := os.Remove(entry.ArtworkPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing old artwork: %w", err)
		}
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("renaming orphan: %w", err)
	}

	entry.ArtworkPath = dest
	if fi, err := os.Stat(dest); err == nil {
		entry.ArtworkSize = fi.Size()
	}
	col.removeOrphan(orphanName)
	log.Printf("adoptOrphan: %s -> %s", src, dest)
	return nil
}

// deleteOrphan removes an orphaned .media file.
func deleteOrphan(col *Collection, orphanName string) error {
	if err := os.Remove(filepath.Join(col.MediaDir, orphanName)); err != nil {
		return fmt.Errorf("removing orphan: %w", err)
	}
	col.removeOrphan(orphanName)
	log.Printf("deleteOrphan: collection=%s name=%s", col.Name, orphanName)
	return nil
}

func (c *Collection) removeOrphan(name string) {
	for i, o := range c.Orphans {
		if o == name {
			c.Orphans = append(c.Orphans[:i], c.Orphans[i+1:]...)
			return
		}
	}
}

// artworkDimensions probes an image file's pixel size without a full decode.
func artworkDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening artwork: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("probing artwork: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
