// Package identity derives stable numeric identifiers for video files from
// their basename and byte size. The same file on disk always maps to the same
// identifier, so repeated scans of a library converge instead of duplicating.
package identity

import (
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ErrFileAccess indicates the source file could not be stat'd.
var ErrFileAccess = errors.New("identity: file access")

// Deriver maps a file on disk to its catalog identifier. Implementations
// must be deterministic: the same file yields the same identifier in any
// process, so ids can be re-derived by any consumer of the catalog.
type Deriver interface {
	FromFile(path string) (uint64, error)
}

// NameSize is the default Deriver, hashing the file's basename and byte
// size. Two distinct files with identical name and size are
// indistinguishable to it.
type NameSize struct{}

var _ Deriver = NameSize{}

func (NameSize) FromFile(path string) (uint64, error) {
	return FromFile(path)
}

// Derive computes the identifier for a file with the given basename and size
// in bytes. The digest input is "name_size"; the first eight digest bytes are
// read big-endian and rounded to the nearest thousand so identifiers stay
// stable across minor container remuxes that preserve the size bucket.
func Derive(name string, size int64) uint64 {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", name, size)))
	raw := binary.BigEndian.Uint64(sum[:8])
	return roundToThousand(raw)
}

// FromFile stats path and derives the identifier from its basename and size.
func FromFile(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %v", ErrFileAccess, path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrFileAccess, path)
	}
	return Derive(filepath.Base(path), info.Size()), nil
}

func roundToThousand(v uint64) uint64 {
	q, r := v/1000, v%1000
	if r >= 500 {
		// Rounding up past the top of the uint64 range would wrap to 0;
		// clamp to rounding down instead.
		if q == math.MaxUint64/1000 {
			return q * 1000
		}
		q++
	}
	return q * 1000
}
