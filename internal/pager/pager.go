// Package pager slices ordered sequences into fixed-size pages.
// All functions are pure.
package pager

const (
	// DefaultPageSize is the number of entities shown per list page.
	DefaultPageSize = 5
	// DefaultChunkSize is the number of runes shown per description page.
	DefaultChunkSize = 1000
)

// Items splits items into pages of at most size elements, preserving order.
// The last page may be shorter. Empty input yields a single empty page so
// that renderers never index out of range.
func Items[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if len(items) == 0 {
		return [][]T{{}}
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end])
	}
	return pages
}

// Text splits text into chunks of at most size runes. Concatenating the
// chunks in order reconstructs the input exactly. Empty input yields a
// single empty chunk.
func Text(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Clamp forces a requested page index into [0, max(pageCount,1)-1].
// A pageCount of zero is treated as one (the sentinel empty page).
func Clamp(requested, pageCount int) int {
	if pageCount < 1 {
		pageCount = 1
	}
	if requested < 0 {
		return 0
	}
	if requested >= pageCount {
		return pageCount - 1
	}
	return requested
}
