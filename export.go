// FILE: lixenwraith/settings/export.go
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	jsonIndent     = "  "
	writeChunkSize = 32 * 1024
)

// ToJSON renders the tree under r as a JSON object, one indent level per depth.
func ToJSON(r Reader) string {
	return ToJSONIndent(r, 1)
}

// ToJSONIndent renders the tree with its top-level properties at indentLevel
// (minimum 1). Leaves render as strings; sections render as nested objects.
// A node with both a value and children renders as a section.
func ToJSONIndent(r Reader, indentLevel int) string {
	if r == nil {
		invalidArgument("reader is nil")
	}
	if indentLevel < 1 {
		indentLevel = 1
	}

	var b strings.Builder
	writeJSONSection(&b, r, "", indentLevel)
	return b.String()
}

func writeJSONSection(b *strings.Builder, r Reader, path string, level int) {
	children := r.Children(path)
	if len(children) == 0 {
		b.WriteString("{}")
		return
	}

	b.WriteString("{\n")
	for i, name := range children {
		childPath := JoinKey(path, name)

		b.WriteString(strings.Repeat(jsonIndent, level))
		b.WriteString(quoteJSON(name))
		b.WriteString(": ")
		if len(r.Children(childPath)) > 0 {
			writeJSONSection(b, r, childPath, level+1)
		} else {
			v, _ := r.Get(childPath)
			b.WriteString(quoteJSON(v))
		}
		if i < len(children)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(jsonIndent, level-1))
	b.WriteByte('}')
}

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a string cannot fail
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// WriteJSON writes ToJSON(r) to path, replacing any existing file.
func WriteJSON(r Reader, path string) error {
	return WriteJSONContext(context.Background(), r, path)
}

// WriteJSONContext is WriteJSON with cancellation. Rendering is not
// cancellable; the write is. A write cancelled before completion leaves any
// existing file at path untouched and returns ctx.Err().
func WriteJSONContext(ctx context.Context, r Reader, path string) error {
	if r == nil {
		return fmt.Errorf("%w: reader is nil", ErrInvalidArgument)
	}
	if path == "" {
		return fmt.Errorf("%w: file path is empty", ErrInvalidArgument)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := []byte(ToJSON(r))
	return atomicWriteFile(ctx, path, data)
}

// atomicWriteFile performs atomic file write, checking ctx between chunks
func atomicWriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tempPath)
		}
	}()

	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			tempFile.Close()
			return err
		}
		n := min(len(data), writeChunkSize)
		if _, err := tempFile.Write(data[:n]); err != nil {
			tempFile.Close()
			return fmt.Errorf("failed to write temporary file: %w", err)
		}
		data = data[n:]
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	renamed = true

	return nil
}
