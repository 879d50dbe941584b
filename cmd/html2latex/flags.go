package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds input decoding flags.
type inputFlags struct {
	markdown bool
	encoding string
}

// conversionFlags holds converter option flags.
type conversionFlags struct {
	decodeEntities bool
	keepSpace      bool
}

// documentFlags holds standalone document flags.
type documentFlags struct {
	standalone   bool
	noStandalone bool
}

// databaseFlags holds PostgreSQL source flags.
type databaseFlags struct {
	url   string
	query string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	input      inputFlags
	conversion conversionFlags
	document   documentFlags
	database   databaseFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addInputFlags adds input flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.BoolVarP(&f.markdown, "markdown", "m", false, "treat every input as Markdown")
	fs.StringVarP(&f.encoding, "encoding", "e", "", "input charset label, e.g. gbk (default utf-8)")
}

// addConversionFlags adds converter flags to a FlagSet.
func addConversionFlags(fs *flag.FlagSet, f *conversionFlags) {
	fs.BoolVar(&f.decodeEntities, "decode-entities", false, "decode &amp; and other character references")
	fs.BoolVar(&f.keepSpace, "keep-space", false, "keep whitespace-only text between tags")
}

// addDocumentFlags adds document wrapper flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete LaTeX document")
	fs.BoolVar(&f.noStandalone, "no-standalone", false, "write bare LaTeX bodies")
}

// addDatabaseFlags adds PostgreSQL flags to a FlagSet.
func addDatabaseFlags(fs *flag.FlagSet, f *databaseFlags) {
	fs.StringVar(&f.url, "db-url", "", "PostgreSQL URL to read fragments from")
	fs.StringVar(&f.query, "db-query", "", "query returning (id, content) text columns")
}

// newConvertFlagSet builds the convert FlagSet bound to f.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output .tex file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addConversionFlags(fs, &f.conversion)
	addDocumentFlags(fs, &f.document)
	addDatabaseFlags(fs, &f.database)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// pflag calls Usage, which writes to w, on parse failure or --help.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConvertUsage(w) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if f.document.standalone && f.document.noStandalone {
		return nil, nil, fmt.Errorf("%w: --standalone and --no-standalone are mutually exclusive", ErrUsage)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}

// newConfigFlagSet builds the config FlagSet bound to f.
func newConfigFlagSet(f *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	addCommonFlags(fs, f)
	return fs
}

// parseConfigFlags parses the config command flags.
func parseConfigFlags(args []string, w io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newConfigFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConfigUsage(w) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}
