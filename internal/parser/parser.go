package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reader parses one tabular file format into a Table.
type Reader interface {
	CanRead(name string) bool
	Read(name string, r io.Reader, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Supported reports whether any registered reader accepts the file name.
func Supported(name string) bool {
	return lookup(name) != nil
}

// Parse selects a reader by file name and parses r.
func Parse(name string, r io.Reader, opt Options) (*Table, error) {
	rd := lookup(name)
	if rd == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupported)
	}
	return rd.Read(filepath.Base(name), r, opt)
}

// ParseFile opens path and parses it with the matching reader.
func ParseFile(path string, opt Options) (*Table, error) {
	if lookup(path) == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Parse(path, f, opt)
}

func lookup(name string) Reader {
	for _, r := range registry {
		if r.CanRead(name) {
			return r
		}
	}
	return nil
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}
