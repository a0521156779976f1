// File path: cmd/cvrminer/commands.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nordicdata/cvrminer/internal/api"
	"github.com/nordicdata/cvrminer/internal/catalog"
	"github.com/nordicdata/cvrminer/internal/common"
	"github.com/nordicdata/cvrminer/internal/export"
	"github.com/nordicdata/cvrminer/internal/source"
	"github.com/nordicdata/cvrminer/internal/text"
)

func defaultDumpPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "cvrminer_data", "cvr-permanent.json.gz")
}

func dumpPath(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return defaultDumpPath()
}

func runShow(ctx context.Context, args []string) error {
	reader, err := source.Open(dumpPath(args))
	if err != nil {
		return err
	}
	defer reader.Close()
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		pretty, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		fmt.Println(string(pretty))
	}
}

// runTypes prints each distinct record type on first appearance. A full
// dump yields virksomhed, produktionsenhed, deltager and meta.
func runTypes(ctx context.Context, args []string) error {
	reader, err := source.Open(dumpPath(args))
	if err != nil {
		return err
	}
	defer reader.Close()
	seen := make(map[string]struct{})
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, ok := seen[record.Type]; ok {
			continue
		}
		seen[record.Type] = struct{}{}
		fmt.Println(record.Type)
	}
}

func runFields(ctx context.Context, args []string) error {
	reader, err := source.Open(dumpPath(args))
	if err != nil {
		return err
	}
	defer reader.Close()
	seen := make(map[string]struct{})
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Join(record.SourceFields(), ",")
		if _, ok := seen[fields]; ok {
			continue
		}
		seen[fields] = struct{}{}
		fmt.Println(fields)
	}
}

func runFeatures(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("features", flag.ExitOnError)
	output := fs.String("o", "virksomheder-features.csv", "output CSV path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reader, err := source.Open(dumpPath(fs.Args()))
	if err != nil {
		return err
	}
	defer reader.Close()
	count, err := export.WriteFeatures(ctx, reader, *output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d feature rows to %s\n", count, *output)
	return nil
}

func runCountFields(ctx context.Context, args []string) error {
	reader, err := source.Open(dumpPath(args))
	if err != nil {
		return err
	}
	defer reader.Close()
	counts, err := export.CountFields(ctx, reader)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(counts))
	for path := range counts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Printf("%6d %s\n", counts[path], path)
	}
	return nil
}

func runBuildCatalog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build-catalog", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the SQLite catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reader, err := source.Open(dumpPath(fs.Args()))
	if err != nil {
		return err
	}
	defer reader.Close()
	store, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	common.Logger().Info("cvrminer: building catalog", "dump", reader.Path())
	inserted, err := store.Build(ctx, reader)
	if err != nil {
		return err
	}
	fmt.Printf("catalogued %d companies\n", inserted)
	return nil
}

func runCountCompanies(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("count-companies", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the SQLite catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Println(count)
	return nil
}

func runCompany(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("company", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the SQLite catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("cvr number required")
	}
	cvrNumber, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cvr number %q", fs.Arg(0))
	}
	store, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	payload, err := store.Company(ctx, cvrNumber)
	if err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode company: %w", err)
	}
	fmt.Println(string(pretty))
	return nil
}

func runPurposes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purposes", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the SQLite catalog database")
	clean := fs.Bool("clean", false, "strip boilerplate from purposes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	var purposes []string
	if fs.NArg() > 0 {
		cvrNumber, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid cvr number %q", fs.Arg(0))
		}
		purposes, err = store.Purposes(ctx, cvrNumber)
		if err != nil {
			return err
		}
	} else {
		purposes, err = store.AllPurposes(ctx)
		if err != nil {
			return err
		}
	}
	var processor *text.PurposeProcessor
	if *clean {
		processor = text.NewPurposeProcessor()
	}
	for _, purpose := range purposes {
		if processor != nil {
			purpose = processor.Clean(purpose)
		}
		fmt.Println(purpose)
	}
	return nil
}

func runCleanPurpose(args []string) error {
	if len(args) == 0 {
		return errors.New("purpose text required")
	}
	processor := text.NewPurposeProcessor()
	fmt.Println(processor.Clean(strings.Join(args, " ")))
	return nil
}

func runServe(ctx context.Context, args []string) error {
	logger := common.Logger()
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "listen address")
	dbPath := fs.String("db", "", "path to the SQLite catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := catalog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	server, err := api.NewServer(store)
	if err != nil {
		return err
	}
	logger.Info("cvrminer: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
