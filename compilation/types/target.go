package types

import "fmt"

// ArtifactKind is an output selection entry naming a compiled artifact.
type ArtifactKind string

const (
	// ArtifactBytecode selects the creation bytecode.
	ArtifactBytecode ArtifactKind = "zvm.bytecode"
	// ArtifactDeployedBytecode selects the runtime bytecode.
	ArtifactDeployedBytecode ArtifactKind = "zvm.deployedBytecode"
)

// IsSupported reports whether bytecode can be extracted for the artifact kind.
func (k ArtifactKind) IsSupported() bool {
	return k == ArtifactBytecode || k == ArtifactDeployedBytecode
}

// Target designates the contract artifact whose bytecode is compared across compilations.
type Target struct {
	// SourceFile is the source unit name the contract is declared in.
	SourceFile string `json:"sourceFile"`

	// ContractName is the name of the contract within SourceFile.
	ContractName string `json:"contractName"`

	// ArtifactKind selects creation or runtime bytecode.
	ArtifactKind ArtifactKind `json:"artifactKind"`
}

// String returns the target in "file:Contract" form.
func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.SourceFile, t.ContractName)
}

// ObjectPath returns the response path of the bytecode object, e.g.
// contracts["DAO.hyp"]["DAO"].zvm.bytecode.object.
func (t Target) ObjectPath() string {
	return fmt.Sprintf("%s.object", t.artifactPath())
}

// artifactPath returns the response path of the artifact selected by the target.
func (t Target) artifactPath() string {
	return fmt.Sprintf("%s.%s", t.contractPath(), t.ArtifactKind)
}

// contractPath returns the response path of the contract selected by the target.
func (t Target) contractPath() string {
	return fmt.Sprintf("contracts[%q][%q]", t.SourceFile, t.ContractName)
}
