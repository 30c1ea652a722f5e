// Package registry maps backend names to reader and writer factories.
//
// Backends register themselves from init(); the CLI selects one of each by
// name at startup. Asking for a name nobody registered is a missing
// dependency, reported before any file is opened.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// ReaderOptions carries the settings a reader backend may need.
type ReaderOptions struct {
	// Date1904 forces the 1904 date epoch for readers that cannot detect it.
	Date1904 bool

	// Charset is a decoding hint for readers that accept one.
	Charset string
}

// ReaderFactory builds a reader from options.
type ReaderFactory func(opts ReaderOptions) types.Reader

// WriterFactory builds a writer.
type WriterFactory func() types.Writer

var (
	mu      sync.RWMutex
	readers = map[string]ReaderFactory{}
	writers = map[string]WriterFactory{}
)

// MissingDependencyError reports a backend name with no registered
// implementation.
type MissingDependencyError struct {
	Kind      string // "reader" or "writer"
	Name      string
	Available []string
}

func (e *MissingDependencyError) Error() string {
	avail := "none"
	if len(e.Available) > 0 {
		avail = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("%s backend %q is not available (available: %s)", e.Kind, e.Name, avail)
}

// Instructions is the install hint printed next to the error.
func (e *MissingDependencyError) Instructions() string {
	return fmt.Sprintf("Select one of the available %s backends with --%s, or rebuild with the package that registers %q imported.",
		e.Kind, e.Kind, e.Name)
}

// RegisterReader makes a reader backend available under name. Registering
// the same name twice panics.
func RegisterReader(name string, f ReaderFactory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := readers[name]; dup {
		panic("registry: duplicate reader " + name)
	}
	readers[name] = f
}

// RegisterWriter makes a writer backend available under name. Registering
// the same name twice panics.
func RegisterWriter(name string, f WriterFactory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := writers[name]; dup {
		panic("registry: duplicate writer " + name)
	}
	writers[name] = f
}

// Reader returns the factory registered under name.
func Reader(name string) (ReaderFactory, error) {
	mu.RLock()
	defer mu.RUnlock()
	if f, ok := readers[name]; ok {
		return f, nil
	}
	return nil, &MissingDependencyError{Kind: "reader", Name: name, Available: sortedKeys(readers)}
}

// Writer returns the factory registered under name.
func Writer(name string) (WriterFactory, error) {
	mu.RLock()
	defer mu.RUnlock()
	if f, ok := writers[name]; ok {
		return f, nil
	}
	return nil, &MissingDependencyError{Kind: "writer", Name: name, Available: sortedKeys(writers)}
}

// Readers lists registered reader names.
func Readers() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(readers)
}

// Writers lists registered writer names.
func Writers() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(writers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
