package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/sagarc03/eir"
)

// sniffLen is how many leading bytes are scanned for a NUL.
const sniffLen = 1024

// Regular reads a file in full.
type Regular struct{}

func (Regular) Generate(ctx context.Context, path eir.RequestPath) (eir.Body, error) {
	if err := ctx.Err(); err != nil {
		return eir.Body{}, err
	}

	data, err := os.ReadFile(path.Absolute())
	if err != nil {
		return eir.Body{}, fmt.Errorf("read file %s: %w", path.Relative(), err)
	}

	return eir.Body{Data: data, Text: IsText(data)}, nil
}

// IsText reports whether data has no NUL byte within its first 1024 bytes.
func IsText(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) < 0
}
