package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"thriftshop/internal/catalog"
	"thriftshop/internal/domain"
	"thriftshop/internal/services"
)

func TestSavedService(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSavedService(memkv(t))
	_ = svc.Save(ctx, "sid", "p1")
	_ = svc.Save(ctx, "sid", "p2")
	_ = svc.Save(ctx, "sid", "p1")

	ids, err := svc.List(ctx, "sid")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("saving twice keeps one entry, got %v", ids)
	}
	_ = svc.Unsave(ctx, "sid", "p1")
	if ok, _ := svc.IsSaved(ctx, "sid", "p1"); ok {
		t.Fatal("p1 should be unsaved")
	}
	if other, _ := svc.List(ctx, "other"); len(other) != 0 {
		t.Fatal("saved lists are per session")
	}
}

func TestRecentService_MRUCapped(t *testing.T) {
	ctx := context.Background()
	svc := services.NewRecentService(memkv(t))
	for i := 0; i < 10; i++ {
		_ = svc.Record(ctx, "sid", fmt.Sprintf("p%d", i))
	}
	_ = svc.Record(ctx, "sid", "p5")

	ids, _ := svc.List(ctx, "sid")
	if len(ids) != services.MaxRecent {
		t.Fatalf("want %d, got %v", services.MaxRecent, ids)
	}
	want := []string{"p5", "p9", "p8", "p7", "p6", "p4", "p3", "p2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("want %v, got %v", want, ids)
		}
	}
}

func TestPrefsService(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPrefsService(memkv(t))

	if th, _ := svc.Theme(ctx, "sid"); th != services.ThemeLight {
		t.Fatalf("default theme is light, got %s", th)
	}
	for _, want := range []services.Theme{services.ThemeDark, services.ThemeSepia, services.ThemeLight} {
		got, err := svc.CycleTheme(ctx, "sid")
		if err != nil || got != want {
			t.Fatalf("want %s, got %s (%v)", want, got, err)
		}
	}

	_ = svc.DismissBanner(ctx, "sid", "sale")
	flags, _ := svc.Banners(ctx, "sid")
	if !flags["sale"] || flags["welcome"] {
		t.Fatalf("unexpected flags %v", flags)
	}
}

func TestCatalogService_PersistsState(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := services.NewCatalogService(memkv(t))
	svc.Now = func() time.Time { return clock }

	var products []domain.Product
	for i := 0; i < 20; i++ {
		products = append(products, domain.Product{
			ID: fmt.Sprintf("p%02d", i), Name: "Denim", Price: 100, CreatedAt: clock.AddDate(0, -1, 0),
		})
	}

	if _, err := svc.LoadMore(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	v, st, err := svc.View(ctx, "sid", products)
	if err != nil {
		t.Fatal(err)
	}
	if st.Visible != 24 || len(v.PagedOther) != 20 || v.HasMore {
		t.Fatalf("unexpected paging visible=%d shown=%d", st.Visible, len(v.PagedOther))
	}

	c := catalog.DefaultCriteria()
	c.Sort = catalog.SortNameAsc
	st, _ = svc.Apply(ctx, "sid", c)
	if st.Visible != catalog.PageSize {
		t.Fatal("criteria change resets paging")
	}

	_, _ = svc.Type(ctx, "sid", "zzz")
	v, _, _ = svc.View(ctx, "sid", products)
	if v.TotalOther != 20 {
		t.Fatal("search should not apply before the quiet period")
	}
	clock = clock.Add(catalog.SearchQuiet)
	v, _, _ = svc.View(ctx, "sid", products)
	if v.TotalOther != 0 {
		t.Fatalf("search should apply after the quiet period, got %d", v.TotalOther)
	}
}
