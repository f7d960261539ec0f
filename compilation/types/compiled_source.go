package types

// CompiledSource is the per-source descriptor of a compiler response.
type CompiledSource struct {
	// ID is the source unit identifier used in source mappings.
	ID int `json:"id"`
}
