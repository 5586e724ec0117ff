package models

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestGenerateForLeasesIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	leaseIds := []int{11, 22, 33}

	var mu sync.Mutex
	calls := map[int]int{}
	generate := func(ctx context.Context, leaseId int, year int, month int) (*MonthlyObligation, error) {
		mu.Lock()
		calls[leaseId]++
		mu.Unlock()
		if leaseId == 22 {
			return nil, errors.New("lease misconfigured")
		}
		return &MonthlyObligation{LeaseId: leaseId, Year: year, Month: month}, nil
	}

	results := generateForLeases(ctx, leaseIds, 2025, 7, generate)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// results keep the input order even though generation is concurrent
	for i, leaseId := range leaseIds {
		if results[i].LeaseId != leaseId {
			t.Fatalf("result %d is for lease %d, want %d", i, results[i].LeaseId, leaseId)
		}
	}
	if results[0].Status != BatchStatusOk || results[2].Status != BatchStatusOk {
		t.Fatalf("sibling failure must not affect healthy leases: %+v", results)
	}
	if results[1].Status != BatchStatusError {
		t.Fatalf("failed lease must report error status, got %q", results[1].Status)
	}
	if results[1].Error != "lease misconfigured" {
		t.Fatalf("error message = %q", results[1].Error)
	}
	for _, leaseId := range leaseIds {
		if calls[leaseId] != 1 {
			t.Fatalf("lease %d generated %d times, want 1", leaseId, calls[leaseId])
		}
	}
}

func TestGenerateForLeasesEmpty(t *testing.T) {
	results := generateForLeases(context.Background(), nil, 2025, 7,
		func(ctx context.Context, leaseId int, year int, month int) (*MonthlyObligation, error) {
			t.Fatal("generator must not be called for an empty batch")
			return nil, nil
		})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
