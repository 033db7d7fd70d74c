package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"thriftshop/internal/domain"
)

type nopFetcher struct{}

func (nopFetcher) FetchProducts(ctx context.Context) ([]domain.Product, *domain.StaleDataWarning, error) {
	return nil, nil, nil
}

func TestFinish_LateOlderCycleIsIgnored(t *testing.T) {
	p := NewProductProvider(nopFetcher{}, "https://sheet", false, time.Second)

	older := p.begin()
	newer := p.begin()
	if !p.State().Loading {
		t.Fatal("state should be loading while cycles run")
	}

	fresh := []domain.Product{{ID: "new"}}
	p.finish(newer, fresh, nil, nil)
	want := p.State()
	if want.Status != StatusSuccess || want.Loading {
		t.Fatalf("newer cycle should apply, got %+v", want)
	}

	p.finish(older, []domain.Product{{ID: "old"}}, nil, errors.New("late failure"))
	got := p.State()
	if got.Status != StatusSuccess || got.Err != nil || len(got.Products) != 1 || got.Products[0].ID != "new" {
		t.Fatalf("older completion overwrote the newer state: %+v", got)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatal("older completion should not touch UpdatedAt")
	}
}

func TestFinish_LoadingUntilLatestCycleEnds(t *testing.T) {
	p := NewProductProvider(nopFetcher{}, "https://sheet", false, time.Second)

	first := p.begin()
	second := p.begin()
	p.finish(first, []domain.Product{{ID: "a"}}, nil, nil)
	if st := p.State(); !st.Loading || st.Products[0].ID != "a" {
		t.Fatalf("first result applies but a newer cycle is still running: %+v", st)
	}
	p.finish(second, []domain.Product{{ID: "b"}}, nil, nil)
	if st := p.State(); st.Loading || st.Products[0].ID != "b" {
		t.Fatalf("unexpected final state %+v", st)
	}
}
