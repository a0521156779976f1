// File path: internal/source/reader_test.go
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func companyLine(cvr int64) string {
	return fmt.Sprintf(`{"_id":"%d","_type":"virksomhed","_source":{"Vrvirksomhed":{"cvrNummer":%d}}}`, cvr, cvr)
}

const metaLine = `{"_id":"1","_type":"meta","_source":{"NewestRetrievedFileTimestampForBeskaeftigelse":"2016-05-07T08:59:23.373+02:00"}}`

func writeDump(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func readAllCVRs(t *testing.T, path string) []int64 {
	t.Helper()
	reader, err := Open(path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer reader.Close()
	var cvrs []int64
	for {
		company, err := reader.NextCompany()
		if errors.Is(err, io.EOF) {
			return cvrs
		}
		if err != nil {
			t.Fatalf("next company: %v", err)
		}
		cvrs = append(cvrs, company.CVRNumber())
	}
}

func TestReaderYieldsRecordsInFileOrder(t *testing.T) {
	path := writeDump(t, companyLine(1), companyLine(2), companyLine(3))
	reader, err := Open(path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer reader.Close()
	for want := int64(1); want <= 3; want++ {
		record, err := reader.Next()
		if err != nil {
			t.Fatalf("next record: %v", err)
		}
		company, ok := record.Company()
		if !ok {
			t.Fatalf("record %d is not a company", want)
		}
		if company.CVRNumber() != want {
			t.Fatalf("out of order: got %d, want %d", company.CVRNumber(), want)
		}
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after last record, got %v", err)
	}
}

func TestReopenYieldsIdenticalSequence(t *testing.T) {
	path := writeDump(t, companyLine(10), companyLine(20), companyLine(30))
	first := readAllCVRs(t, path)
	second := readAllCVRs(t, path)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 records per pass, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sequences differ at %d: %v vs %v", i, first, second)
		}
	}
}

func TestMalformedEntryStopsIteration(t *testing.T) {
	path := writeDump(t, companyLine(1), `{"_id": broken`, companyLine(3))
	reader, err := Open(path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer reader.Close()
	if _, err := reader.Next(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err = reader.Next()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Line != 2 {
		t.Fatalf("parse error line: got %d, want 2", parseErr.Line)
	}
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestGzipDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create gzip dump: %v", err)
	}
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte(companyLine(7) + "\n" + companyLine(8) + "\n")); err != nil {
		t.Fatalf("write gzip dump: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close gzip dump: %v", err)
	}

	cvrs := readAllCVRs(t, path)
	if len(cvrs) != 2 || cvrs[0] != 7 || cvrs[1] != 8 {
		t.Fatalf("unexpected gzip records: %v", cvrs)
	}

	// The plain path must fall back to its .gz sibling.
	plain := path[:len(path)-len(".gz")]
	reader, err := Open(plain)
	if err != nil {
		t.Fatalf("open with fallback: %v", err)
	}
	defer reader.Close()
	if reader.Path() != path {
		t.Fatalf("fallback path: got %q, want %q", reader.Path(), path)
	}
	if _, err := reader.Next(); err != nil {
		t.Fatalf("read via fallback: %v", err)
	}
}

func TestNextCompanySkipsOtherRecordTypes(t *testing.T) {
	path := writeDump(t, metaLine, companyLine(5), metaLine)
	cvrs := readAllCVRs(t, path)
	if len(cvrs) != 1 || cvrs[0] != 5 {
		t.Fatalf("expected only company 5, got %v", cvrs)
	}
}
