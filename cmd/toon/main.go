// toon converts between JSON and TOON.
//
// Usage:
//
//	toon data.json data.toon          Convert a file, formats by extension
//	toon data.toon                    Convert to the opposite format on stdout
//	toon --from json --to toon        Convert stdin to stdout
//
// A .gz suffix on either path compresses or decompresses transparently.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/nwidger/jsoncolor"
	"github.com/pkg/errors"

	"github.com/toonfmt/toon/toon"
	"github.com/toonfmt/toon/toonfile"
)

const version = "1.0.0"

var cli struct {
	Input  string `arg:"" optional:"" help:"Input file (.json or .toon, optionally gzipped). Reads stdin when omitted." type:"path"`
	Output string `arg:"" optional:"" help:"Output file. Writes stdout when omitted." type:"path"`

	From         string `help:"Input format when reading stdin." enum:"json,toon,auto" default:"auto"`
	To           string `help:"Output format when writing stdout." enum:"json,toon,auto" default:"auto"`
	Indent       int    `help:"Spaces per nesting level." default:"2"`
	Delimiter    string `help:"TOON array delimiter." enum:"comma,tab,pipe" default:"comma"`
	LengthMarker bool   `help:"Write [#N] length markers in TOON output."`
	Lenient      bool   `help:"Tolerate tab indentation and array length mismatches."`
	NoColor      bool   `help:"Disable colorized JSON output."`
	Version      bool   `short:"v" help:"Show version information."`
}

func main() {
	parser := kong.Must(&cli,
		kong.Name("toon"),
		kong.Description("Convert between JSON and TOON (Token-Oriented Object Notation)"),
		kong.UsageOnError(),
	)
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if cli.Version {
		fmt.Printf("toon version %s\n", version)
		return
	}

	if err := run(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "toon: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	decodeOpts := toon.DecodeOptions{
		Strict:     !cli.Lenient,
		IndentSize: cli.Indent,
		Delimiter:  delimiterFromName(cli.Delimiter),
	}
	encodeOpts := toon.EncodeOptions{
		Indent:       cli.Indent,
		Delimiter:    delimiterFromName(cli.Delimiter),
		LengthMarker: cli.LengthMarker,
	}

	value, inFormat, err := readInput(decodeOpts)
	if err != nil {
		return err
	}

	// File output: format comes from the extension.
	if cli.Output != "" {
		return toonfile.Dump(value, cli.Output, encodeOpts)
	}

	outFormat := toonfile.ParseFormat(cli.To)
	if outFormat == toonfile.FormatUnknown {
		// Default to the opposite of the input format.
		if inFormat == toonfile.FormatJSON {
			outFormat = toonfile.FormatTOON
		} else {
			outFormat = toonfile.FormatJSON
		}
	}

	return writeStdout(value, outFormat, encodeOpts)
}

// readInput loads the value from the input file or stdin and reports the
// format it was read in.
func readInput(opts toon.DecodeOptions) (*toon.Value, toonfile.Format, error) {
	if cli.Input != "" {
		format := toonfile.DetectFormat(cli.Input)
		v, err := toonfile.Load(cli.Input, opts)
		return v, format, err
	}

	format := toonfile.ParseFormat(cli.From)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, format, errors.Wrap(err, "read stdin")
	}
	if format == toonfile.FormatUnknown {
		format = sniffFormat(data)
	}

	v, err := toonfile.Decode(data, format, opts)
	return v, format, err
}

// sniffFormat guesses the stdin format. JSON documents start with a brace
// or quote; a leading bracket is a JSON array unless the first line reads
// as a TOON array header. Everything else is treated as TOON.
func sniffFormat(data []byte) toonfile.Format {
	for i, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '"':
			return toonfile.FormatJSON
		case '[':
			firstLine := string(data[i:])
			if j := strings.IndexByte(firstLine, '\n'); j != -1 {
				firstLine = firstLine[:j]
			}
			if strings.Contains(firstLine, "]:") || strings.Contains(firstLine, "]{") {
				return toonfile.FormatTOON
			}
			return toonfile.FormatJSON
		default:
			return toonfile.FormatTOON
		}
	}
	return toonfile.FormatTOON
}

func writeStdout(v *toon.Value, format toonfile.Format, opts toon.EncodeOptions) error {
	data, err := toonfile.Encode(v, format, opts)
	if err != nil {
		return err
	}

	// Colorized JSON is only for humans: require a terminal.
	if format == toonfile.FormatJSON && !cli.NoColor && isatty.IsTerminal(os.Stdout.Fd()) {
		f := jsoncolor.NewFormatter()
		if err := f.Format(os.Stdout, bytes.TrimRight(data, "\n")); err == nil {
			fmt.Println()
			return nil
		}
		// Colorizing failed; fall back to plain output.
	}

	_, err = os.Stdout.Write(data)
	return err
}

func delimiterFromName(name string) toon.Delimiter {
	switch name {
	case "tab":
		return toon.DelimTab
	case "pipe":
		return toon.DelimPipe
	default:
		return toon.DelimComma
	}
}
