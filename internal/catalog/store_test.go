// File path: internal/catalog/store_test.go
package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nordicdata/cvrminer/internal/source"
)

const testDump = `{"_id":"1","_type":"meta","_source":{"NewestRetrievedFileTimestampForBeskaeftigelse":"2016-05-07T08:59:23.373+02:00"}}
{"_id":"2","_type":"virksomhed","_source":{"Vrvirksomhed":{"cvrNummer":111,"virksomhedMetadata":{"nyesteNavn":{"navn":"Alfa ApS"},"sammensatStatus":"Aktiv","nyesteAarsbeskaeftigelse":{"intervalKodeAntalAnsatte":"ANTAL_10_19"}},"attributter":[{"type":"FORMÅL","vaerdier":[{"vaerdi":"Selskabets formål er at drive handel."}]}]}}}
{"_id":"3","_type":"virksomhed","_source":{"Vrvirksomhed":{"cvrNummer":222,"virksomhedMetadata":{"nyesteNavn":{"navn":"Beta I/S"}}}}}
{"_id":"4","_type":"virksomhed","_source":{"Vrvirksomhed":{"cvrNummer":111,"virksomhedMetadata":{"nyesteNavn":{"navn":"Alfa ApS duplikat"}}}}}
`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := Config{Path: filepath.Join(t.TempDir(), "catalog.db")}
	store, err := OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func buildTestStore(t *testing.T) *Store {
	t.Helper()
	dump := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(dump, []byte(testDump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	reader, err := source.Open(dump)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer reader.Close()

	store := openTestStore(t)
	inserted, err := store.Build(context.Background(), reader)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted companies, got %d", inserted)
	}
	return store
}

func TestBuildSkipsDuplicatesAndMeta(t *testing.T) {
	store := buildTestStore(t)
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 companies, got %d", count)
	}
	// The first payload for a CVR number wins.
	payload, err := store.Company(context.Background(), 111)
	if err != nil {
		t.Fatalf("company 111: %v", err)
	}
	metadata, ok := payload["virksomhedMetadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing metadata in payload: %v", payload)
	}
	name, _ := metadata["nyesteNavn"].(map[string]interface{})
	if name["navn"] != "Alfa ApS" {
		t.Fatalf("expected original payload, got %v", name)
	}
}

func TestCompanyNotFound(t *testing.T) {
	store := buildTestStore(t)
	if _, err := store.Company(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFeaturesFromCatalog(t *testing.T) {
	store := buildTestStore(t)
	features, err := store.Features(context.Background(), 111)
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if features["nyeste_antal_ansatte"] != 10 {
		t.Fatalf("employee feature: got %v, want 10", features["nyeste_antal_ansatte"])
	}
	if features["cvr_nummer"] != int64(111) {
		t.Fatalf("cvr feature: got %v", features["cvr_nummer"])
	}
}

func TestPurposes(t *testing.T) {
	store := buildTestStore(t)
	purposes, err := store.Purposes(context.Background(), 111)
	if err != nil {
		t.Fatalf("purposes: %v", err)
	}
	if len(purposes) != 1 || purposes[0] != "Selskabets formål er at drive handel." {
		t.Fatalf("unexpected purposes: %v", purposes)
	}
	all, err := store.AllPurposes(context.Background())
	if err != nil {
		t.Fatalf("all purposes: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 purpose overall, got %d", len(all))
	}
	none, err := store.Purposes(context.Background(), 222)
	if err != nil {
		t.Fatalf("purposes for 222: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no purposes, got %v", none)
	}
}

func TestCompaniesListing(t *testing.T) {
	store := buildTestStore(t)
	companies, err := store.Companies(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}
	if companies[0].CVRNumber != 111 || companies[1].CVRNumber != 222 {
		t.Fatalf("unexpected ordering: %v", companies)
	}
	if companies[0].Name != "Alfa ApS" {
		t.Fatalf("unexpected name: %q", companies[0].Name)
	}

	paged, err := store.Companies(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("paged companies: %v", err)
	}
	if len(paged) != 1 || paged[0].CVRNumber != 222 {
		t.Fatalf("unexpected page: %v", paged)
	}
}
