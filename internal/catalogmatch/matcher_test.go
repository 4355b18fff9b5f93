package catalogmatch

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mixed case", input: "Pizza GRANDE Calabresa", expected: "pizza grande calabresa"},
		{name: "accents", input: "Média Portuguesa Família", expected: "media portuguesa familia"},
		{name: "separators", input: "pizza-grande,2 sabores!", expected: "pizza grande 2 sabores"},
		{name: "cedilla", input: "Calabresa c/ Açaí", expected: "calabresa c acai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := normalize(tt.input); result != tt.expected {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func testItems() []Item {
	return []Item{
		{ID: uuid.New(), Code: "PZ-G", Name: "Pizza Grande"},
		{ID: uuid.New(), Code: "PZ-M", Name: "Pizza Média"},
		{ID: uuid.New(), Name: "Pizza Broto"},
		{ID: uuid.New(), Name: "Refrigerante 2L", Keywords: "refrigerante,refri,coca,guarana"},
		{ID: uuid.New(), Name: "Combo Familia", Keywords: "combo,familia,pizza,refri"},
	}
}

func TestMatch_ByCode(t *testing.T) {
	items := testItems()
	m := New(items)

	res := m.Match("pz-m", "whatever the platform calls it")
	if res.Status != Matched {
		t.Fatalf("status: got %s, want Matched", res.Status)
	}
	if res.Item.ID != items[1].ID {
		t.Errorf("item: got %s, want %s", res.Item.Name, items[1].Name)
	}
}

func TestMatch_SizeIsHardFilter(t *testing.T) {
	items := testItems()
	m := New(items)

	res := m.Match("", "Pizza Grande - 2 sabores")
	if res.Status != Matched {
		t.Fatalf("status: got %s, want Matched", res.Status)
	}
	if res.Item.ID != items[0].ID {
		t.Errorf("item: got %s, want Pizza Grande", res.Item.Name)
	}

	res = m.Match("", "pizza media")
	if res.Status != Matched || res.Item.ID != items[1].ID {
		t.Errorf("media: got %+v", res)
	}
}

func TestMatch_Keywords(t *testing.T) {
	items := testItems()
	m := New(items)

	res := m.Match("UNKNOWN-CODE", "Coca-Cola 2 litros")
	if res.Status != Matched || res.Item.ID != items[3].ID {
		t.Fatalf("got %+v, want Refrigerante", res)
	}
}

func TestMatch_Ambiguous(t *testing.T) {
	m := New(testItems())

	res := m.Match("", "pizza")
	if res.Status != Ambiguous {
		t.Fatalf("status: got %s, want Ambiguous", res.Status)
	}
	if len(res.Candidates) < 2 {
		t.Errorf("candidates: got %d, want >= 2", len(res.Candidates))
	}
}

func TestMatch_Unmatched(t *testing.T) {
	m := New(testItems())

	if res := m.Match("", "Esfiha de carne"); res.Status != Unmatched {
		t.Errorf("status: got %s, want Unmatched", res.Status)
	}
	if res := m.Match("", "pizza gigante"); res.Status != Unmatched {
		t.Errorf("gigante: got %s, want Unmatched", res.Status)
	}
}
