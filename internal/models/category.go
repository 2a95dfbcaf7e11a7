package models

// Category is a reporting label for transactions.
type Category struct {
	ID    string
	Name  string
	Color string // display hex color, e.g. "#ff8800"
}
