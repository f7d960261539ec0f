package types

// CompiledContract represents a single contract unit of a compiler response.
type CompiledContract struct {
	// ZVM holds the VM-related outputs. It is nil when no zvm.* artifact was selected.
	ZVM *ZVMOutput `json:"zvm,omitempty"`
}

// ZVMOutput represents the "zvm" object of a compiled contract.
type ZVMOutput struct {
	// Bytecode describes the creation bytecode.
	Bytecode *BytecodeOutput `json:"bytecode,omitempty"`

	// DeployedBytecode describes the runtime bytecode.
	DeployedBytecode *BytecodeOutput `json:"deployedBytecode,omitempty"`
}

// BytecodeOutput represents a bytecode object of a compiled contract. Object is a pointer so that an absent field can
// be told apart from an empty string.
type BytecodeOutput struct {
	// Object is the hex-encoded bytecode, possibly containing unlinked library placeholders.
	Object *string `json:"object,omitempty"`

	// Opcodes is the disassembly of Object.
	Opcodes string `json:"opcodes,omitempty"`

	// SourceMap associates bytecode ranges with source locations.
	SourceMap string `json:"sourceMap,omitempty"`

	// LinkReferences maps file name to library name to the placeholder positions to patch when linking.
	LinkReferences map[string]map[string][]LinkReference `json:"linkReferences,omitempty"`
}

// LinkReference is a byte range of bytecode that must be replaced by a library address.
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Bytecode returns the bytecode output selected by kind, or nil if the compiler did not emit it.
func (c CompiledContract) Bytecode(kind ArtifactKind) *BytecodeOutput {
	if c.ZVM == nil {
		return nil
	}
	switch kind {
	case ArtifactBytecode:
		return c.ZVM.Bytecode
	case ArtifactDeployedBytecode:
		return c.ZVM.DeployedBytecode
	default:
		return nil
	}
}

// IsUnlinked reports whether the bytecode still carries library placeholders.
func (b *BytecodeOutput) IsUnlinked() bool {
	return b != nil && len(b.LinkReferences) > 0
}
