package snapshot

import (
	"context"
	"errors"
	"testing"

	"sitediff/internal/domain"
	"sitediff/internal/testutil"
)

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteInventoryCSV(t, dir, "alpha.csv",
		"a.txt,/docs/a.txt,10,T0,T1,Docs,txt",
		"b.pdf,/docs/b.pdf,20,T0,T2,Docs,pdf",
	)

	p, err := New(domain.Endpoint{
		Name:     "alpha",
		Type:     domain.EndpointSnapshot,
		Snapshot: path,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	var discovered int
	records, err := p.Inventory(context.Background(), func(n int) { discovered = n })
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Path != "/docs/a.txt" || records[1].Size != 20 {
		t.Errorf("unexpected records: %+v", records)
	}
	if discovered != 2 {
		t.Errorf("progress reported %d, want 2", discovered)
	}
}

func TestInventory_ClearsEmbeddedTags(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "combined.csv",
		"FileName,FilePath,FileSize,Created,Modified,Library,FileExtension,SourceSite,SourceUrl\n"+
			"a.txt,/a.txt,1,T0,T1,Docs,txt,oldsite,https://old.example.com\n")

	p, err := New(domain.Endpoint{Name: "replay", Type: domain.EndpointSnapshot, Snapshot: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, err := p.Inventory(context.Background(), nil)
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if records[0].SourceSite != "" || records[0].SourceURL != "" {
		t.Errorf("embedded tags not cleared: %+v", records[0])
	}
}

func TestInventory_MalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.csv",
		"FileName,FilePath,FileSize,Created,Modified,Library\n"+
			"a.txt,/a.txt,not-a-number,T0,T1,Docs\n")

	p, err := New(domain.Endpoint{Name: "bad", Type: domain.EndpointSnapshot, Snapshot: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Inventory(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("err = %v, want ErrInvalidField", err)
	}
}

func TestInventory_MissingFile(t *testing.T) {
	p, err := New(domain.Endpoint{Name: "gone", Type: domain.EndpointSnapshot, Snapshot: "/nonexistent/x.csv"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Inventory(context.Background(), nil); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}

func TestInventory_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := New(domain.Endpoint{Name: "x", Type: domain.EndpointSnapshot, Snapshot: "whatever.csv"})
	if _, err := p.Inventory(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
