package main

// Example command that loads an observation record, resamples it within a
// one-week, one-hour window and converts the resampled table into a gomlx
// tensor.
//
// Usage:
//   go run ./datasets/example 'assets/station/*.csv'

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/Noofbiz/metsim/datasets"
	"github.com/Noofbiz/metsim/monte"
)

func main() {
	pattern := "assets/station/*.csv"
	if len(os.Args) > 1 {
		pattern = datasets.CSVPattern(os.Args[1])
	}

	ds, err := datasets.NewObservationDataset(pattern, datasets.DefaultCSVOptions())
	if err != nil {
		log.Fatalf("failed to load observations: %v", err)
	}
	fmt.Printf("Using CSV pattern: %s\n", pattern)
	fmt.Printf("Total observations: %d, columns: %v\n", ds.Len(), ds.Columns())

	indices, err := monte.GetConstrainedIndices(ds.DayOfYear(), ds.HourOfDay(), 7, 1, rand.New(rand.NewSource(42)))
	if err != nil {
		log.Fatalf("failed to resample: %v", err)
	}

	batch, err := ds.Resample(indices)
	if err != nil {
		log.Fatalf("failed to apply resampling: %v", err)
	}

	t, err := batch.ToGomlxTensor()
	if err != nil {
		log.Fatalf("failed to convert resampled batch to gomlx tensor: %v", err)
	}
	fmt.Printf("Created resampled tensor: %T\n", t)
	fmt.Printf("  Shape: [%d rows, %d columns]\n", batch.Len(), len(batch.Columns))

	n := min(5, batch.Len())
	for i := range n {
		fmt.Printf("  row %d <- observation %d: %v\n", i+1, batch.Source[i], batch.Values[i])
	}
}
