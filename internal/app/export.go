package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"coin-tracker/internal/storage"
)

// Export renders a coin's price history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}

	from := to.Add(-time.Duration(opts.MaxPoints) * a.Config.Recorder.Interval)
	if opts.From != nil {
		from = opts.From.UTC()
	}

	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	observations, err := store.PricesBetween(ctx, opts.CoinID, from, to)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		a.Logger.Info().Str("coin_id", opts.CoinID).Msg("no price snapshots found for export window")
		return nil
	}

	downsampled := downsampleObservations(observations, opts.MaxPoints)
	a.Logger.Info().Int("total", len(observations)).Int("exported", len(downsampled)).Msg("exporting price history")

	if opts.CSVPath != "" {
		if err := writePricesCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePricesPNG(opts.PNGPath, opts.CoinID, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleObservations(observations []storage.PriceObservation, max int) []storage.PriceObservation {
	if max <= 0 || len(observations) <= max {
		return observations
	}

	result := make([]storage.PriceObservation, 0, max)
	step := float64(len(observations)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(observations) {
			idx = len(observations) - 1
		}
		result = append(result, observations[idx])
	}
	return result
}

func writePricesCSV(path string, observations []storage.PriceObservation) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"ts", "coin_id", "price"}); err != nil {
		return err
	}

	for _, obs := range observations {
		record := []string{
			obs.Timestamp.UTC().Format(time.RFC3339),
			obs.CoinID,
			strconv.FormatFloat(obs.Price, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePricesPNG(path, coinID string, observations []storage.PriceObservation) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(observations))
	prices := make([]float64, len(observations))
	for i, obs := range observations {
		x[i] = obs.Timestamp
		prices[i] = obs.Price
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.4f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    coinID,
				XValues: x,
				YValues: prices,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
