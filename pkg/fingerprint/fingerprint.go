// Package fingerprint computes the checksums recorded in patch manifests
// and verified before a bundle is applied.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"

	units "github.com/docker/go-units"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/spf13/afero"
)

// Option configures a Maker
type Option func(*Maker)

// Size of the digest, in bytes
func Size(sz uint8) Option {
	return func(m *Maker) {
		m.size = sz
	}
}

// BufferSize sets the read buffer used when hashing
func BufferSize(sz int64) Option {
	return func(m *Maker) {
		m.bufferSize = sz
	}
}

// New fingerprint maker. The default digest is a 256 bits blake2b
func New(opts ...Option) *Maker {
	m := &Maker{
		size:       32,
		bufferSize: 64 * units.KiB,
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker hashes content into hex encoded digests
type Maker struct {
	size       uint8
	bufferSize int64
}

// Reader hashes a stream, returning the hex digest and the number of bytes read
func (m *Maker) Reader(r io.Reader) (string, int64, error) {
	h, err := blake2b.New(&blake2b.Config{Size: m.size})
	if err != nil {
		return "", 0, err
	}
	n, err := io.CopyBuffer(h, r, make([]byte, m.bufferSize))
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// File hashes a file
func (m *Maker) File(fs afero.Fs, path string) (string, int64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	digest, n, err := m.Reader(f)
	if err != nil {
		return "", n, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, n, nil
}

// Bytes hashes an in-memory buffer
func (m *Maker) Bytes(b []byte) string {
	h, err := blake2b.New(&blake2b.Config{Size: m.size})
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}
