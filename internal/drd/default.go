package drd

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in DRD catalog: seven axes from Digital
// Processes to Artificial Intelligence.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(bytes.NewReader(defaultYAML))
	})
	return defaultCatalog, defaultErr
}
