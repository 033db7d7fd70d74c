package sheet

import (
	"context"
	"errors"

	"thriftshop/internal/domain"
	"thriftshop/internal/log"

	"go.uber.org/zap"
)

// Report counts what happened to the rows of one load.
type Report struct {
	Rows    int      `json:"rows"`    // records that survived tokenizing
	Kept    int      `json:"kept"`    // products returned
	Dropped int      `json:"dropped"` // rejected by normalization
	Hidden  int      `json:"hidden"`  // isUpcoming == "not"
	Reasons []string `json:"reasons,omitempty"`
}

// Load fetches, parses and normalizes the sheet at url. Bad rows are logged and
// skipped; only the fetch itself can fail.
func Load(ctx context.Context, f Fetcher, url string) ([]domain.Product, Report, error) {
	text, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, Report{}, err
	}
	products, rep := Build(ParseCSV(text))
	log.L().Info("sheet_load",
		zap.String("source", url),
		zap.Int("rows", rep.Rows),
		zap.Int("kept", rep.Kept),
		zap.Int("dropped", rep.Dropped),
		zap.Int("hidden", rep.Hidden),
	)
	return products, rep, nil
}

// Build normalizes already parsed records, keeping source order.
func Build(records []Record) ([]domain.Product, Report) {
	rep := Report{Rows: len(records)}
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		p, err := Normalize(rec)
		if err != nil {
			rep.Dropped++
			rep.Reasons = append(rep.Reasons, err.Error())
			var pe *domain.ParseError
			if errors.As(err, &pe) {
				log.L().Warn("sheet_row_dropped",
					zap.Int("row", pe.Row),
					zap.String("id", pe.ID),
					zap.String("field", pe.Field),
					zap.String("reason", pe.Reason),
				)
			}
			continue
		}
		if p.IsUpcoming.Hidden() {
			rep.Hidden++
			continue
		}
		products = append(products, p)
	}
	rep.Kept = len(products)
	return products, rep
}
