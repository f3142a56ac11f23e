package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/domain"
)

type mockFetcher struct {
	assets map[uint64]algod.Asset
	err    error
	calls  int
}

func (m *mockFetcher) FetchAsset(_ context.Context, id uint64) (algod.Asset, error) {
	m.calls++
	if m.err != nil {
		return algod.Asset{}, m.err
	}
	a, ok := m.assets[id]
	if !ok {
		return algod.Asset{}, algod.ErrNotFound
	}
	return a, nil
}

func usdc() algod.Asset {
	return algod.Asset{
		Index:  31566704,
		Params: algod.AssetParams{Name: "USDC", Decimals: 6, Creator: "CREATOR"},
	}
}

func TestNativeMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	f := &mockFetcher{}
	svc := NewService(NewFileStore(filepath.Join(t.TempDir(), "c.json")), f)

	name, err := svc.Name(ctx, domain.NativeAssetID)
	if err != nil {
		t.Fatal(err)
	}
	decimals, err := svc.Decimals(ctx, domain.NativeAssetID)
	if err != nil {
		t.Fatal(err)
	}
	if name != domain.NativeAssetName || decimals != 6 {
		t.Errorf("unexpected native metadata: %q, %d", name, decimals)
	}
	if f.calls != 0 {
		t.Errorf("expected 0 fetches, got %d", f.calls)
	}
}

func TestLiveLookupBackfillsAndReusesCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "Cache.json")

	f := &mockFetcher{assets: map[uint64]algod.Asset{31566704: usdc()}}
	store := NewFileStore(path)
	svc := NewService(store, f)

	name, err := svc.Name(ctx, 31566704)
	if err != nil {
		t.Fatal(err)
	}
	if name != "USDC" {
		t.Errorf("name = %q, want USDC", name)
	}
	// The first live call back-filled every field.
	if _, err := svc.Decimals(ctx, 31566704); err != nil {
		t.Fatal(err)
	}
	if f.calls != 1 {
		t.Errorf("expected 1 live call, got %d", f.calls)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	// Second run: fresh store over the same file, fetcher that always fails.
	failing := &mockFetcher{err: errors.New("offline")}
	svc2 := NewService(NewFileStore(path), failing)
	creator, err := svc2.Creator(ctx, 31566704)
	if err != nil {
		t.Fatalf("expected cached lookup, got %v", err)
	}
	if creator != "CREATOR" {
		t.Errorf("creator = %q, want CREATOR", creator)
	}
	if failing.calls != 0 {
		t.Errorf("expected no live calls, got %d", failing.calls)
	}
}

func TestCachedFieldsServedWithoutCreator(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "Cache.json")
	doc := `{"assets":{"31566704":{"name":"USDC","decimals":6}}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &mockFetcher{}
	svc := NewService(NewFileStore(path), f)

	name, err := svc.Name(ctx, 31566704)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	decimals, err := svc.Decimals(ctx, 31566704)
	if err != nil {
		t.Fatalf("Decimals: %v", err)
	}
	if name != "USDC" || decimals != 6 {
		t.Errorf("got %q/%d, want USDC/6", name, decimals)
	}
	if f.calls != 0 {
		t.Errorf("expected no live calls, got %d", f.calls)
	}

	// Only the missing field goes live, and it fails on its own.
	if _, err := svc.Creator(ctx, 31566704); !errors.Is(err, algod.ErrNotFound) {
		t.Errorf("Creator err = %v, want ErrNotFound", err)
	}
	if f.calls != 1 {
		t.Errorf("expected 1 live call, got %d", f.calls)
	}
}

func TestMissingFieldFetchedLive(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "Cache.json"))
	if err := store.Put(ctx, 31566704, Entry{Name: strPtr("USDC")}); err != nil {
		t.Fatal(err)
	}

	f := &mockFetcher{assets: map[uint64]algod.Asset{31566704: usdc()}}
	svc := NewService(store, f)
	decimals, err := svc.Decimals(ctx, 31566704)
	if err != nil {
		t.Fatal(err)
	}
	if decimals != 6 {
		t.Errorf("decimals = %d, want 6", decimals)
	}
	if f.calls != 1 {
		t.Errorf("expected 1 live call, got %d", f.calls)
	}

	e, _ := store.Entry(ctx, 31566704)
	if e.Decimals == nil || *e.Decimals != 6 || e.Creator == nil {
		t.Errorf("expected back-filled entry, got %+v", e)
	}
}

func TestLiveFailureCachesNothing(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "Cache.json"))
	f := &mockFetcher{err: errors.New("boom")}

	if _, err := NewService(store, f).Name(ctx, 99); err == nil {
		t.Fatal("expected error")
	}
	e, _ := store.Entry(ctx, 99)
	if e.Name != nil || e.Decimals != nil || e.Creator != nil {
		t.Errorf("expected nothing cached, got %+v", e)
	}
}
