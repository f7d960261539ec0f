package baseline

import (
	"encoding/binary"

	"github.com/crytic/hypcheck/compilation/types"
	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies a compilation whose bytecode must not change between runs.
type Fingerprint struct {
	// Platform is the compilation platform identifier.
	Platform string

	// CompilerVersion is the version reported by the compiler.
	CompilerVersion string

	// Target designates the compared artifact.
	Target types.Target

	// Request is the canonical serialized compilation request.
	Request []byte
}

// Key returns the BLAKE2b-256 hash of the fingerprint fields. Each field is length-prefixed so that adjacent fields
// cannot run into each other.
func (f Fingerprint) Key() []byte {
	// blake2b.New256 only fails for oversized keys
	hasher, _ := blake2b.New256(nil)

	fields := [][]byte{
		[]byte(f.Platform),
		[]byte(f.CompilerVersion),
		[]byte(f.Target.ArtifactKind),
		[]byte(f.Target.SourceFile),
		[]byte(f.Target.ContractName),
		f.Request,
	}
	var length [8]byte
	for _, field := range fields {
		binary.BigEndian.PutUint64(length[:], uint64(len(field)))
		hasher.Write(length[:])
		hasher.Write(field)
	}
	return hasher.Sum(nil)
}
