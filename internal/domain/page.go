package domain

import "slices"

type Page struct {
	Items      []NewsItem
	HasMore    bool
	NextOffset int
}

// PagedNews is the cached value of an infinite feed. PageOffsets[i] is the
// offset that was requested to obtain Pages[i].
type PagedNews struct {
	Pages       []Page
	PageOffsets []int
}

// Items flattens the loaded pages into one displayable list.
func (p PagedNews) Items() []NewsItem {
	var all []NewsItem
	for _, page := range p.Pages {
		all = append(all, page.Items...)
	}
	return FilterFeed(all)
}

func (p PagedNews) HasMore() bool {
	if len(p.Pages) == 0 {
		return true
	}
	return p.Pages[len(p.Pages)-1].HasMore
}

// NextOffset returns the offset of the next page to request and whether
// there is one.
func (p PagedNews) NextOffset() (int, bool) {
	if len(p.Pages) == 0 {
		return 0, true
	}
	last := p.Pages[len(p.Pages)-1]
	return last.NextOffset, last.HasMore
}

func (p PagedNews) HasOffset(offset int) bool {
	return slices.Contains(p.PageOffsets, offset)
}

// WithPage returns a copy with page appended at offset. A page already
// loaded for offset is left untouched.
func (p PagedNews) WithPage(offset int, page Page) PagedNews {
	if p.HasOffset(offset) {
		return p
	}
	return PagedNews{
		Pages:       append(slices.Clone(p.Pages), page),
		PageOffsets: append(slices.Clone(p.PageOffsets), offset),
	}
}

// MapItems returns a copy with fn applied to every page's item list.
func (p PagedNews) MapItems(fn func([]NewsItem) []NewsItem) PagedNews {
	pages := make([]Page, len(p.Pages))
	for i, page := range p.Pages {
		page.Items = fn(page.Items)
		pages[i] = page
	}
	return PagedNews{Pages: pages, PageOffsets: slices.Clone(p.PageOffsets)}
}
