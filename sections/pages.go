package sections

import "github.com/avinse/reportage/model"

// pageIndex groups a document's blocks by page and caches page medians
// so repeated classifier and scoring calls do not rescan the block
// list. Blocks are never mutated after indexing.
type pageIndex struct {
	blocks  map[int][]model.TextBlock
	medians map[int]float64
}

func indexPages(blocks []model.TextBlock) *pageIndex {
	idx := &pageIndex{
		blocks:  make(map[int][]model.TextBlock),
		medians: make(map[int]float64),
	}
	for _, b := range blocks {
		idx.blocks[b.Page] = append(idx.blocks[b.Page], b)
	}
	return idx
}

func (idx *pageIndex) onPage(page int) []model.TextBlock {
	return idx.blocks[page]
}

func (idx *pageIndex) median(page int) float64 {
	if m, ok := idx.medians[page]; ok {
		return m
	}
	m := MedianFontSize(idx.blocks[page])
	idx.medians[page] = m
	return m
}
