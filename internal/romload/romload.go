// Package romload locates and decompresses a ROM image from the host
// filesystem, transparently handling 7z archives (a common ROM
// distribution format) and brotli-compressed images (used by some
// archival ROM sets) ahead of cartridge.Load.
package romload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/google/brotli/go/cbrotli"

	"github.com/thelolagemann/gomeboycore/internal/coreerr"
	"github.com/thelolagemann/gomeboycore/internal/log"
)

// romExtensions lists the file extensions accepted as candidate ROM
// entries inside an archive, in priority order.
var romExtensions = []string{".gbc", ".gb", ".sgb"}

// Load reads a ROM image from path, transparently unwrapping it if it
// is a 7z archive or a .br-compressed file.
func Load(path string) ([]byte, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".7z"):
		return loadFromArchive(path)
	case strings.HasSuffix(strings.ToLower(path), ".br"):
		return loadBrotli(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, coreerr.New(coreerr.InvalidROM, "romload: %v", err)
		}
		return data, nil
	}
}

func loadFromArchive(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: opening archive: %v", err)
	}
	defer r.Close()

	entry := selectROMEntry(r.File)
	if entry == nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: no ROM entry found in %s", path)
	}

	f, err := entry.Open()
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: opening %s: %v", entry.Name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: reading %s: %v", entry.Name, err)
	}

	log.Default.WithField("entry", entry.Name).WithField("archive", path).Info("romload: extracted ROM from archive")
	return data, nil
}

// selectROMEntry picks the first archive entry whose extension
// matches a known ROM type, preferring .gbc over .gb over .sgb.
func selectROMEntry(files []*sevenzip.File) *sevenzip.File {
	for _, ext := range romExtensions {
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f.Name), ext) {
				return f
			}
		}
	}
	return nil
}

func loadBrotli(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: %v", err)
	}
	data, err := cbrotli.Decode(compressed)
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "romload: brotli decode: %v", err)
	}
	return data, nil
}

// Detect reports whether data carries the Nintendo logo bytes at
// 0x0104-0x0133 of a Game Boy/Game Boy Color header, used to sanity-check a ROM extracted
// from an archive before handing it to cartridge.Load.
func Detect(data []byte) error {
	if len(data) < 0x150 {
		return fmt.Errorf("romload: image too short (%d bytes)", len(data))
	}
	if !bytes.Equal(data[0x104:0x134], nintendoLogo[:]) {
		return fmt.Errorf("romload: Nintendo logo mismatch, likely not a Game Boy ROM")
	}
	return nil
}

// nintendoLogo is the fixed bitmap every valid cartridge header
// carries at 0x0104-0x0133; the original boot ROM halts if it doesn't
// match, and it remains a useful sanity check here even though boot-ROM
// execution itself is out of scope.
var nintendoLogo = [0x30]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}
