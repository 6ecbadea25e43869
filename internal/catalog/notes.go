package catalog

import "github.com/shopspring/decimal"

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var defaultNotes = []Note{
	{ID: "note-001", Title: "Calculus I Complete Notes", Description: "Limits, derivatives and integrals with worked examples.", Subject: "Mathematics", Seller: "Aarav Sharma", Price: price("15.99"), Pages: 84},
	{ID: "note-002", Title: "Linear Algebra Cheat Sheet", Description: "Vector spaces, eigenvalues and matrix decompositions.", Subject: "Mathematics", Seller: "Maya Chen", Price: price("4.99"), Pages: 12},
	{ID: "note-003", Title: "Organic Chemistry Reactions", Description: "Mechanisms for substitution, elimination and addition.", Subject: "Chemistry", Seller: "Lucas Martin", Price: price("12.50"), Pages: 56},
	{ID: "note-004", Title: "Intro to Microeconomics", Description: "Supply and demand, elasticity and market structures.", Subject: "Economics", Seller: "Priya Patel", Price: price("9.99"), Pages: 40},
	{ID: "note-005", Title: "Data Structures in Practice", Description: "Trees, heaps, hash tables and graph traversal.", Subject: "Computer Science", Seller: "Maya Chen", Price: price("18.00"), Pages: 97},
	{ID: "note-006", Title: "Cell Biology Summary", Description: "Organelles, membrane transport and the cell cycle.", Subject: "Biology", Seller: "Sofia Rossi", Price: price("7.25"), Pages: 33},
	{ID: "note-007", Title: "Classical Mechanics Problem Set", Description: "Newtonian dynamics and energy conservation, solved.", Subject: "Physics", Seller: "Aarav Sharma", Price: price("11.00"), Pages: 48},
	{ID: "note-008", Title: "World History 1900-1950", Description: "Causes and outcomes of the two world wars.", Subject: "History", Seller: "Lucas Martin", Price: price("0"), Pages: 25},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultNotes)
	if err != nil {
		panic(err)
	}
	return c
}
