package pagetext

import (
	"math"
	"sort"
	"strings"

	"github.com/avinse/reportage/model"
)

// Stats summarizes extraction yield across a document's pages. Bucket
// classification and the min/max/median/stddev figures use stripped
// character counts; TotalChars counts raw text.
func Stats(pages []model.PageText) model.ExtractionStats {
	var s model.ExtractionStats
	s.TotalPages = len(pages)
	if len(pages) == 0 {
		return s
	}

	stripped := make([]int, len(pages))
	var nonEmpty []float64
	for i, p := range pages {
		c := len(strings.TrimSpace(p.Text))
		stripped[i] = c
		s.TotalChars += p.CharCount()

		switch {
		case c == 0:
			s.EmptyPages++
		case c <= 100:
			s.LowPages++
		case c <= 1000:
			s.ModeratePages++
		default:
			s.GoodPages++
		}
		if c > 50 {
			s.PagesWithContent++
		}
		if c > 0 {
			nonEmpty = append(nonEmpty, float64(c))
		}
	}

	s.MinChars = stripped[0]
	s.MaxChars = stripped[0]
	for _, c := range stripped[1:] {
		if c < s.MinChars {
			s.MinChars = c
		}
		if c > s.MaxChars {
			s.MaxChars = c
		}
	}

	s.AvgChars = float64(s.TotalChars) / float64(len(pages))
	s.CoveragePercent = float64(s.PagesWithContent) / float64(len(pages)) * 100
	s.MedianChars = median(nonEmpty)
	s.StddevChars = stddev(nonEmpty)
	return s
}

// median returns the middle value, or the mean of the two middle values
// for even counts. Empty input yields 0.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// stddev returns the sample standard deviation rounded to two decimals,
// or 0 for fewer than two values.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Round(math.Sqrt(ss/float64(len(xs)-1))*100) / 100
}
