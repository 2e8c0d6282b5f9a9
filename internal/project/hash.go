package project

import (
	"crypto/sha256"
	"encoding/binary"

	"codex/internal/version"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine hashes content followed by the given parts: H(content || p1 || p2 ...).
// The order of parts is significant.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes the tool version and every setting that changes
// analysis results, so it can be combined with a file hash into a cache key.
func (c *Config) Fingerprint() Digest {
	h := sha256.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = h.Write(buf[:])
	}
	writeStr := func(s string) {
		writeInt(len(s))
		_, _ = h.Write([]byte(s))
	}
	writeBool := func(b bool) {
		if b {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}
	// таблицы правил меняются между версиями
	writeStr(version.Version)
	writeStr(version.GitCommit)
	writeInt(int(c.ModeSet()))
	writeInt(c.Style.LineLimit)
	writeInt(c.Style.MaxDepth)
	writeBool(c.Style.MagicNumbers)
	writeBool(c.Style.Echo)
	writeBool(c.Pairing.Enabled)
	writeStr(c.Pairing.Enter)
	writeStr(c.Pairing.Leave)
	writeInt(c.Pairing.MaxDistance)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
