package catalog_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/notesmarket/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(notes []catalog.Note) []string {
	result := make([]string, 0, len(notes))
	for _, n := range notes {
		result = append(result, n.ID)
	}
	return result
}

func TestSearch(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{name: "query title case-insensitive", filter: catalog.Filter{Query: "CALCULUS"}, want: []string{"note-001"}},
		{name: "query description", filter: catalog.Filter{Query: "eigenvalues"}, want: []string{"note-002"}},
		{name: "subject", filter: catalog.Filter{Subject: "mathematics"}, want: []string{"note-001", "note-002"}},
		{name: "seller", filter: catalog.Filter{Seller: "maya chen"}, want: []string{"note-002", "note-005"}},
		{
			name:   "max price",
			filter: catalog.Filter{MaxPrice: decimal.RequireFromString("5")},
			want:   []string{"note-002", "note-008"},
		},
		{
			name:   "combined",
			filter: catalog.Filter{Subject: "Mathematics", MaxPrice: decimal.RequireFromString("10")},
			want:   []string{"note-002"},
		},
		{name: "no match", filter: catalog.Filter{Query: "astrology"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.filter)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestSearch_EmptyFilterReturnsAll(t *testing.T) {
	c := catalog.Default()
	assert.Equal(t, ids(c.All()), ids(c.Search(catalog.Filter{})))
}

func TestGet(t *testing.T) {
	c := catalog.Default()

	note, ok := c.Get("note-001")
	require.True(t, ok)
	assert.Equal(t, "Calculus I Complete Notes", note.Title)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, []string{
		"Biology", "Chemistry", "Computer Science", "Economics", "History", "Mathematics", "Physics",
	}, catalog.Default().Subjects())
}

func TestNote_CartItem(t *testing.T) {
	note := catalog.Note{
		ID:      gofakeit.UUID(),
		Title:   gofakeit.BookTitle(),
		Subject: gofakeit.BookGenre(),
		Seller:  gofakeit.Name(),
		Price:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
	}

	item := note.CartItem()
	assert.Equal(t, note.ID, item.ID)
	assert.Equal(t, note.Title, item.Title)
	assert.Equal(t, note.Seller, item.Seller)
	assert.Equal(t, note.Subject, item.Subject)
	assert.True(t, note.Price.Equal(item.Price))
	assert.Equal(t, 1, item.Quantity)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		notes   []catalog.Note
		wantErr bool
	}{
		{name: "valid: ok", notes: []catalog.Note{{ID: "a", Price: decimal.NewFromInt(1)}, {ID: "b"}}},
		{name: "empty id: error", notes: []catalog.Note{{Price: decimal.NewFromInt(1)}}, wantErr: true},
		{name: "negative price: error", notes: []catalog.Note{{ID: "a", Price: decimal.NewFromInt(-1)}}, wantErr: true},
		{name: "duplicate id: error", notes: []catalog.Note{{ID: "a"}, {ID: "a"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.New(tt.notes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.All(), len(tt.notes))
		})
	}
}
