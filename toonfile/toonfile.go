// Package toonfile reads and writes TOON and JSON files, dispatching on
// the file extension. A trailing .gz layer is handled transparently.
package toonfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/toonfmt/toon/toon"
)

// Format identifies a serialization format by file extension.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatTOON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOON:
		return "toon"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name ("json" or "toon") to a Format.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON
	case "toon":
		return FormatTOON
	default:
		return FormatUnknown
	}
}

// DetectFormat returns the format implied by the path's extension. A .gz
// suffix is stripped first, so data.toon.gz detects as TOON.
func DetectFormat(path string) Format {
	p := path
	if strings.EqualFold(filepath.Ext(p), ".gz") {
		p = strings.TrimSuffix(p, filepath.Ext(p))
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(p), "."))
}

// Load reads a file and decodes it according to its extension.
func Load(path string, opts toon.DecodeOptions) (*toon.Value, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, errors.Errorf("unsupported file format %q (supported: .json, .toon)", filepath.Ext(path))
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format, opts)
}

// Dump encodes a value and writes it to a file according to its extension.
func Dump(v *toon.Value, path string, opts toon.EncodeOptions) error {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return errors.Errorf("unsupported file format %q (supported: .json, .toon)", filepath.Ext(path))
	}

	data, err := Encode(v, format, opts)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// Decode parses raw bytes in the given format.
func Decode(data []byte, format Format, opts toon.DecodeOptions) (*toon.Value, error) {
	switch format {
	case FormatJSON:
		return toon.FromJSON(data)
	case FormatTOON:
		return toon.Decode(string(data), opts)
	default:
		return nil, errors.New("unknown format")
	}
}

// Encode renders a value in the given format. TOON output gains a trailing
// newline; JSON output is pretty-printed with the option's indent.
func Encode(v *toon.Value, format Format, opts toon.EncodeOptions) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := toon.ToJSON(v, opts.Indent)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOON:
		return []byte(toon.Encode(v, opts) + "\n"), nil
	default:
		return nil, errors.New("unknown format")
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "decompress %s", path)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, errors.Wrapf(err, "decompress %s", path)
		}
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return errors.Wrapf(err, "compress %s", path)
		}
		if err := zw.Close(); err != nil {
			return errors.Wrapf(err, "compress %s", path)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
