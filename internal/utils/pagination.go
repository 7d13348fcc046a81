package utils

import (
	"math"
)

type Page struct {
	Number int
	IsLink bool
}

// TotalPages computes ceil(total/pageSize) for positive pageSize.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// GeneratePagination generates the data for the pagination template: a window
// of pages around the current one plus the first and last page, with zeros
// standing in for ellipses.
func GeneratePagination(currentPage, totalPages int) map[string]interface{} {
	if totalPages <= 1 {
		return nil
	}

	var pages []Page
	window := 2 // pages on each side of the current one

	pages = append(pages, Page{Number: 1, IsLink: true})

	if currentPage > window+2 {
		pages = append(pages, Page{Number: 0, IsLink: false}) // ellipsis
	}

	start := int(math.Max(2, float64(currentPage-window)))
	end := int(math.Min(float64(totalPages-1), float64(currentPage+window)))

	for i := start; i <= end; i++ {
		pages = append(pages, Page{Number: i, IsLink: true})
	}

	if currentPage < totalPages-(window+1) {
		pages = append(pages, Page{Number: 0, IsLink: false}) // ellipsis
	}

	if totalPages > 1 {
		pages = append(pages, Page{Number: totalPages, IsLink: true})
	}

	// Drop duplicates that show up when the window overlaps the edges.
	finalPages := []Page{}
	seen := make(map[int]bool)
	for _, p := range pages {
		if p.Number == currentPage {
			p.IsLink = false
		}
		if p.Number == 0 {
			finalPages = append(finalPages, p)
			continue
		}
		if !seen[p.Number] {
			finalPages = append(finalPages, p)
			seen[p.Number] = true
		}
	}

	return map[string]interface{}{
		"CurrentPage": currentPage,
		"TotalPages":  totalPages,
		"HasPrev":     currentPage > 1,
		"HasNext":     currentPage < totalPages,
		"PrevPage":    currentPage - 1,
		"NextPage":    currentPage + 1,
		"Pages":       finalPages,
	}
}
