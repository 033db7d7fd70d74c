// Command sheetcheck loads a product sheet the way the shop does and reports
// which rows would be kept, dropped or hidden.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"thriftshop/internal/config"
	"thriftshop/internal/domain"
	applog "thriftshop/internal/log"
	"thriftshop/internal/money"
	"thriftshop/internal/sheet"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", cfg.CSVURL, "published CSV url (defaults to CSV_URL)")
	file := flag.String("file", "", "read a local CSV export instead of fetching")
	proxy := flag.String("proxy", cfg.CSVProxyURL, "CORS relay prefix")
	timeout := flag.Duration("timeout", cfg.FetchTimeout, "fetch timeout")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	strict := flag.Bool("strict", false, "exit 1 when any row is dropped")
	verbose := flag.Bool("v", false, "log every dropped row")
	flag.Parse()

	if *verbose {
		if err := applog.Init("development", nil); err != nil {
			fmt.Fprintln(os.Stderr, "init logger:", err)
			os.Exit(2)
		}
		defer applog.Sync()
	}

	products, rep, err := load(*file, *url, *proxy, *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sheetcheck:", err)
		os.Exit(2)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"report": rep, "products": products})
	} else {
		printReport(products, rep)
	}
	if *strict && rep.Dropped > 0 {
		os.Exit(1)
	}
}

func load(file, url, proxy string, timeout time.Duration) ([]domain.Product, sheet.Report, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, sheet.Report{}, err
		}
		products, rep := sheet.Build(sheet.ParseCSV(string(b)))
		return products, rep, nil
	}
	src, err := sheet.ResolveSource(url, "")
	if err != nil {
		return nil, sheet.Report{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sheet.Load(ctx, sheet.NewClient(proxy, timeout), src.URL)
}

func printReport(products []domain.Product, rep sheet.Report) {
	fmt.Printf("rows %d  kept %d  dropped %d  hidden %d\n", rep.Rows, rep.Kept, rep.Dropped, rep.Hidden)
	for _, r := range rep.Reasons {
		fmt.Println("  dropped:", r)
	}
	now := time.Now()
	for _, p := range products {
		state := "available"
		switch {
		case p.Sold:
			state = "sold"
		case !p.Live(now):
			state = "drops " + p.DropDate.Format(time.RFC3339)
		}
		fmt.Printf("%-12s %-32s %10s  %s\n", p.ID, p.Name, money.Rupees(p.Price), state)
	}
}
