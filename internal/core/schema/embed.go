package schema

import _ "embed"

//go:embed defaults.yaml
var embedded []byte

// Default returns the registry compiled from the embedded defaults.yaml
func Default() (*Registry, error) {
	return Parse(embedded)
}
