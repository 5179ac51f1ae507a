package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
)

// The clipboard bridge shells out to the platform clipboard tools instead of
// binding a clipboard library: the handheld has no window system at all, and
// in the macOS/Linux dev environments the standard tools (pbcopy/pngpaste,
// xclip/xsel, wl-copy/wl-paste) are what is actually available.
//
// Every call is stateless; clipboard ownership lives with the OS.

// errClipboardUnavailable means no clipboard tool exists on this system.
// On the device itself this is the normal state.
var errClipboardUnavailable = errors.New("no clipboard tool available")

// readClipboardImage returns the clipboard's image decoded, or (nil, nil)
// when the clipboard holds no image-compatible content.
func readClipboardImage() (image.Image, error) {
	cmd, err := clipboardReadCommand()
	if err != nil {
		return nil, err
	}

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && emptyClipboardExit(exitErr.Stderr) {
			// The tools exit non-zero when no image target is on the clipboard.
			log.Printf("readClipboardImage: no image content (%v)", err)
			return nil, nil
		}
		return nil, fmt.Errorf("clipboard read %s: %w", cmd.Path, err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		log.Printf("readClipboardImage: undecodable clipboard data: %v", err)
		return nil, nil
	}
	return img, nil
}

// emptyClipboardExit reports whether a paste tool's failure stderr is one of
// the known "nothing to paste" messages rather than a real access failure.
// pngpaste says "No image data found", wl-paste says "No selection" or
// "No suitable type of content copied", xclip says the target is
// "not available". Anything else (no display, permission problems) is a
// genuine error the caller should see.
func emptyClipboardExit(stderr []byte) bool {
	msg := strings.ToLower(string(stderr))
	for _, marker := range []string{
		"no image data",
		"no selection",
		"no suitable type",
		"not available",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// writeClipboardImage replaces the clipboard contents with the given PNG bytes.
func writeClipboardImage(pngData []byte) error {
	if platform == PlatformMac {
		// osascript reads the image from a file; there is no stdin path for
		// PNG clipboard data on macOS without extra tools.
		tmp, err := os.CreateTemp("", "boxart-clip-*.png")
		if err != nil {
			return fmt.Errorf("creating clipboard temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(pngData); err != nil {
			tmp.Close()
			return fmt.Errorf("writing clipboard temp file: %w", err)
		}
		tmp.Close()

		script := fmt.Sprintf("set the clipboard to (read (POSIX file %q) as «class PNGf»)", tmp.Name())
		return runClipboardCommand(exec.Command("osascript", "-e", script), nil)
	}

	cmd, err := clipboardWriteCommand()
	if err != nil {
		return err
	}
	return runClipboardCommand(cmd, pngData)
}

// writeClipboardText replaces the clipboard contents with plain text.
func writeClipboardText(text string) error {
	var cmd *exec.Cmd
	switch {
	case platform == PlatformMac:
		if _, err := exec.LookPath("pbcopy"); err != nil {
			return errClipboardUnavailable
		}
		cmd = exec.Command("pbcopy")
	case commandExists("wl-copy"):
		cmd = exec.Command("wl-copy")
	case commandExists("xclip"):
		cmd = exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		cmd = exec.Command("xsel", "--clipboard", "--input")
	default:
		return errClipboardUnavailable
	}
	return runClipboardCommand(cmd, []byte(text))
}

// clipboardReadCommand picks the image-paste tool for this system.
func clipboardReadCommand() (*exec.Cmd, error) {
	switch {
	case platform == PlatformMac:
		if commandExists("pngpaste") {
			return exec.Command("pngpaste", "-"), nil
		}
		return nil, errClipboardUnavailable
	case commandExists("wl-paste"):
		return exec.Command("wl-paste", "--type", "image/png"), nil
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard", "-t", "image/png", "-o"), nil
	default:
		return nil, errClipboardUnavailable
	}
}

// clipboardWriteCommand picks the image-copy tool for non-macOS systems.
func clipboardWriteCommand() (*exec.Cmd, error) {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy", "--type", "image/png"), nil
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard", "-t", "image/png", "-i"), nil
	default:
		return nil, errClipboardUnavailable
	}
}

// runClipboardCommand executes a clipboard command, piping data to its stdin
// when data is non-nil.
func runClipboardCommand(cmd *exec.Cmd, data []byte) error {
	if data != nil {
		cmd.Stdin = bytes.NewReader(data)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("runClipboardCommand: %s failed: %v output=%q", cmd.Path, err, out)
		return fmt.Errorf("clipboard command %s: %w", cmd.Path, err)
	}
	return nil
}

// commandExists checks whether a tool is on PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
