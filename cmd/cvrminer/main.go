// File path: cmd/cvrminer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nordicdata/cvrminer/internal/common"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug("cvrminer: .env file not loaded", "error", err)
	} else {
		logger.Info("cvrminer: environment loaded from .env")
	}

	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	command := args[0]
	rest := args[1:]

	var err error
	switch command {
	case "show":
		err = runShow(ctx, rest)
	case "types":
		err = runTypes(ctx, rest)
	case "fields":
		err = runFields(ctx, rest)
	case "features":
		err = runFeatures(ctx, rest)
	case "count-fields":
		err = runCountFields(ctx, rest)
	case "build-catalog":
		err = runBuildCatalog(ctx, rest)
	case "count-companies":
		err = runCountCompanies(ctx, rest)
	case "company":
		err = runCompany(ctx, rest)
	case "purposes":
		err = runPurposes(ctx, rest)
	case "clean-purpose":
		err = runCleanPurpose(rest)
	case "serve":
		err = runServe(ctx, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("cvrminer: command failed", "command", command, "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: cvrminer <command> [flags] [args]

Dump commands:
  show [file]              pretty print records from a dump
  types [file]             print distinct record types
  fields [file]            print distinct record payload field sets
  features [flags] [file]  write the company feature file (-o output.csv)
  count-fields [file]      print field path occurrence counts

Catalog commands:
  build-catalog [flags] [file]  ingest a dump into the SQLite catalog (-db path)
  count-companies [flags]       print the number of catalogued companies
  company [flags] <cvr>         print the raw payload of one company
  purposes [flags] [cvr]        print stored purposes (-clean to strip boilerplate)

Other commands:
  clean-purpose <text>     strip boilerplate from a purpose string
  serve [flags]            serve the catalog over HTTP (-addr, -db)

The dump file defaults to ~/cvrminer_data/cvr-permanent.json.gz.
`)
}
