package types

import (
	"fmt"
	"strings"

	"github.com/crytic/medusa-geth/common/hexutil"
	"github.com/crytic/medusa-geth/crypto"
)

// DecodeBytecode decodes a hex bytecode object as emitted by the compiler, with or without a 0x prefix. Unlinked
// bytecode, which contains library placeholders, is not valid hex and yields an error.
func DecodeBytecode(object string) ([]byte, error) {
	bytecode, err := hexutil.Decode("0x" + strings.TrimPrefix(object, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bytecode object is not valid hex (unlinked libraries?): %w", err)
	}
	return bytecode, nil
}

// BytecodeDigest returns the hex-encoded Keccak-256 hash of a bytecode object. Objects which decode as hex are hashed
// as bytes, anything else is hashed as the literal string.
func BytecodeDigest(object string) string {
	if bytecode, err := DecodeBytecode(object); err == nil {
		return crypto.Keccak256Hash(bytecode).Hex()
	}
	return crypto.Keccak256Hash([]byte(object)).Hex()
}
