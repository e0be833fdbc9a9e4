package datasets

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// parseValue parses a float32 cell. Empty cells and NA markers are NaN.
func parseValue(s string) (float32, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NA", "NAN":
		return float32(math.NaN()), nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	return strconv.Atoi(s)
}

// CSVPattern turns a directory into a glob over its CSV files. Anything that
// is already a glob or a file path is returned unchanged.
func CSVPattern(path string) string {
	if strings.ContainsAny(path, "*?[") || strings.HasSuffix(strings.ToLower(path), ".csv") {
		return path
	}
	return filepath.Join(path, "*.csv")
}
