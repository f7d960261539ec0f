package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is the CBOR-encoded map the compiler appends to contract bytecode (unless explicitly directed not
// to). It carries the metadata hash and the compiler version.
type ContractMetadata map[string]any

// metadataHashPrefixes defines patterns to search for when the trailing length of the metadata section is unusable.
var metadataHashPrefixes = [][]byte{
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22
	{0xa1, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a1 64 "ipfs" 0x58 0x22 (no version key)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20
}

// bytecodeHashMetadataKeys defines the keys in ContractMetadata which contain bytecode hashes.
var bytecodeHashMetadataKeys = [...]string{
	"ipfs",
	"bzzr1",
	"bzzr0",
}

// compilerVersionMetadataKeys defines the keys in ContractMetadata which contain the compiler version.
var compilerVersionMetadataKeys = [...]string{
	"hypc",
	"solc",
}

// SplitContractMetadata splits bytecode into the code proper and its trailing CBOR metadata section. The compiler
// encodes the metadata length in the final two bytes; when that length does not lead to a valid CBOR map, the known
// metadata prefixes are searched instead. ok is false if no metadata section could be located.
func SplitContractMetadata(bytecode []byte) (code []byte, metadata []byte, ok bool) {
	if len(bytecode) > 2 {
		metadataLength := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
		metadataOffset := len(bytecode) - 2 - metadataLength
		if metadataLength > 0 && metadataOffset >= 0 && decodesAsMetadata(bytecode[metadataOffset:len(bytecode)-2]) {
			return bytecode[:metadataOffset], bytecode[metadataOffset:], true
		}
	}

	for _, metadataHashPrefix := range metadataHashPrefixes {
		metadataOffset := bytes.LastIndex(bytecode, metadataHashPrefix)
		if metadataOffset != -1 && decodesAsMetadata(bytecode[metadataOffset:]) {
			return bytecode[:metadataOffset], bytecode[metadataOffset:], true
		}
	}
	return bytecode, nil, false
}

// decodesAsMetadata reports whether data starts with a non-empty CBOR map.
func decodesAsMetadata(data []byte) bool {
	// CBOR major type 5 (map) occupies 0xa0-0xbf
	if len(data) == 0 || data[0]&0xe0 != 0xa0 {
		return false
	}
	var metadata ContractMetadata
	return cbor.Unmarshal(data, &metadata) == nil && len(metadata) > 0
}

// ExtractContractMetadata extracts contract metadata from provided bytecode and returns it. If contract metadata
// could not be extracted, nil is returned.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	_, metadataSection, ok := SplitContractMetadata(bytecode)
	if !ok {
		return nil
	}

	var metadata ContractMetadata
	if err := cbor.Unmarshal(metadataSection, &metadata); err != nil {
		return nil
	}
	return &metadata
}

// RemoveContractMetadata returns bytecode without its metadata section (and whatever follows it). Bytecode without
// detectable metadata is returned as-is.
func RemoveContractMetadata(bytecode []byte) []byte {
	code, _, _ := SplitContractMetadata(bytecode)
	return code
}

// ExtractBytecodeHash extracts the bytecode hash from given contract metadata. If it could not be detected or
// extracted, nil is returned.
func (m ContractMetadata) ExtractBytecodeHash() []byte {
	for _, possibleMetadataKey := range bytecodeHashMetadataKeys {
		if bytecodeHashData, keyExists := m[possibleMetadataKey]; keyExists {
			if bytecodeHash, ok := bytecodeHashData.([]byte); ok {
				return bytecodeHash
			}
		}
	}
	return nil
}

// ExtractCompilerVersion returns the compiler version recorded in the metadata in "major.minor.patch" form, or the
// empty string if none is recorded.
func (m ContractMetadata) ExtractCompilerVersion() string {
	for _, possibleMetadataKey := range compilerVersionMetadataKeys {
		versionData, keyExists := m[possibleMetadataKey]
		if !keyExists {
			continue
		}
		switch version := versionData.(type) {
		case []byte:
			// Release builds store three raw bytes
			if len(version) == 3 {
				return fmt.Sprintf("%d.%d.%d", version[0], version[1], version[2])
			}
		case string:
			// Prerelease builds store the full version string
			return version
		}
	}
	return ""
}
