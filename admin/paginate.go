package admin

import "strconv"

// Page describes one page of a list screen. Number is 1-based.
type Page struct {
	Number   int
	Size     int
	Total    int
	NumPages int
}

// ParsePage reads the "p" query value; anything but a positive integer is page 1
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NewPage describes page number of total items split into pages of size
func NewPage(number, size, total int) Page {
	if size < 1 {
		size = 1
	}
	if number < 1 {
		number = 1
	}
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	return Page{Number: number, Size: size, Total: total, NumPages: numPages}
}

// Offset is the number of items before this page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }
