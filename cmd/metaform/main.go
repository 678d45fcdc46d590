package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	sfjson "github.com/elastic/go-structform/json"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/metaform"
)

func main() {
	var (
		inFile      = flag.String("in", "", "Path to JSON input file (default stdin)")
		outFile     = flag.String("out", "", "Path to output file (default stdout)")
		echoJSON    = flag.Bool("json", false, "Echo normalized JSON instead of the form body")
		nullFields  = flag.Bool("null-fields", false, "Render absent nested fields as JSON null")
		maxDepth    = flag.Int("max-depth", 0, "Nesting limit (0 = default)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		metaform.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*nullFields); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inFile == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Usage: metaform [-in file.json] [-out file] [-json] [-null-fields] [-max-depth n]")
		fmt.Fprintln(os.Stderr, "       metaform -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "Reads a JSON object body and writes its form+JSON encoding.")
		os.Exit(1)
	}

	if err := run(*inFile, *outFile, *echoJSON, *nullFields, *maxDepth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inFile, outFile string, echoJSON, nullFields bool, maxDepth int) error {
	// Read input
	var (
		src []byte
		err error
	)
	if inFile == "" || inFile == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(inFile)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Open output
	out := io.Writer(os.Stdout)
	if outFile != "" {
		f, cerr := os.Create(outFile)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer f.Close()
		out = f
	}

	if echoJSON {
		// Inspection aid: replay the input through the plain JSON visitor
		// so key order and number formatting match what the encoder sees.
		jv := sfjson.NewVisitor(out)
		jv.SetEscapeHTML(false)
		if err := sfjson.Parse(src, jv); err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}
		fmt.Fprintln(out)
		return nil
	}

	vs := metaform.NewVisitor(out)
	vs.SetNullFields(nullFields)
	vs.SetMaxDepth(maxDepth)
	if err := sfjson.Parse(src, vs); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := vs.Finish(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}
