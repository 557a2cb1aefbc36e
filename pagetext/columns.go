package pagetext

import (
	"sort"

	"github.com/avinse/reportage/model"
)

// gap is one horizontal gap between consecutive distinct word centers.
type gap struct {
	width float64
	mid   float64
}

// findGaps returns the gaps wider than minGap between consecutive
// distinct centers whose left edge lies strictly inside (minX, maxX),
// widest first.
func findGaps(centers []float64, minX, maxX, minGap float64) []gap {
	if len(centers) < 2 {
		return nil
	}

	sorted := make([]float64, len(centers))
	copy(sorted, centers)
	sort.Float64s(sorted)

	uniq := make([]float64, 0, len(sorted))
	for i, c := range sorted {
		if i > 0 && c == sorted[i-1] {
			continue
		}
		uniq = append(uniq, c)
	}

	var gaps []gap
	for i := 0; i < len(uniq)-1; i++ {
		x := uniq[i]
		if x <= minX || x >= maxX {
			continue
		}
		if w := uniq[i+1] - x; w > minGap {
			gaps = append(gaps, gap{width: w, mid: (x + uniq[i+1]) / 2})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].width != gaps[j].width {
			return gaps[i].width > gaps[j].width
		}
		return gaps[i].mid > gaps[j].mid
	})
	return gaps
}

func wordCenters(words []model.Word) []float64 {
	centers := make([]float64, len(words))
	for i, w := range words {
		centers[i] = (w.X0 + w.X1) / 2
	}
	return centers
}

// splitAt partitions words around x by center: left strictly below, right
// at or above.
func splitAt(words []model.Word, x float64) (left, right []model.Word) {
	for _, w := range words {
		if (w.X0+w.X1)/2 < x {
			left = append(left, w)
		} else {
			right = append(right, w)
		}
	}
	return left, right
}

// wordsInBand returns the words whose center lies in [minX, maxX).
func wordsInBand(words []model.Word, minX, maxX float64) []model.Word {
	var out []model.Word
	for _, w := range words {
		if c := (w.X0 + w.X1) / 2; c >= minX && c < maxX {
			out = append(out, w)
		}
	}
	return out
}
