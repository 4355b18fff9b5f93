package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	grande = Size{Name: "Grande", MaxFlavors: 3, BasePrice: dec("45.00")}
	media  = Size{Name: "Media", MaxFlavors: 2, BasePrice: dec("35.00")}

	calabresa  = Flavor{Name: "Calabresa", Type: "TRADICIONAL"}
	mussarela  = Flavor{Name: "Mussarela", Type: "TRADICIONAL"}
	camarao    = Flavor{Name: "Camarao", Type: "PREMIUM"}
	fileMignon = Flavor{Name: "File Mignon", Type: "PREMIUM"}
	quatroQ    = Flavor{Name: "Quatro Queijos", Type: "ESPECIAL"}
	portuguesa = Flavor{Name: "Portuguesa Especial", Type: "ESPECIAL"}
)

func TestComputePizzaPrice(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		flavors []Flavor
		extras  []Extra
		crust   bool
		want    string
	}{
		{
			name:    "mixed premium with stuffed crust",
			size:    grande,
			flavors: []Flavor{calabresa, camarao},
			crust:   true,
			want:    "64.99",
		},
		{
			name:    "two especial flavors",
			size:    media,
			flavors: []Flavor{quatroQ, portuguesa},
			want:    "75.00",
		},
		{
			name:    "single premium flavor has no surcharge",
			size:    grande,
			flavors: []Flavor{camarao},
			want:    "45.00",
		},
		{
			name:    "single especial flavor is surcharged",
			size:    grande,
			flavors: []Flavor{quatroQ},
			want:    "65.00",
		},
		{
			name:    "two premium flavors on mixed pizza",
			size:    grande,
			flavors: []Flavor{camarao, fileMignon, calabresa},
			want:    "75.00",
		},
		{
			name:    "premium and especial mix",
			size:    grande,
			flavors: []Flavor{camarao, quatroQ},
			want:    "80.00",
		},
		{
			name:    "extras multiplied by quantity",
			size:    media,
			flavors: []Flavor{calabresa},
			extras: []Extra{
				{Name: "Bacon", Price: dec("6.50"), Quantity: 2},
				{Name: "Catupiry", Price: dec("5.00"), Quantity: 1},
			},
			want: "53.00",
		},
		{
			name:    "extra restricted to matching size",
			size:    grande,
			flavors: []Flavor{mussarela},
			extras:  []Extra{{Name: "Borda de chocolate", Price: dec("8.00"), Quantity: 1, SizeName: "grande"}},
			want:    "53.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePizzaPrice(tt.size, tt.flavors, tt.extras, tt.crust)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("price: got %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestComputePizzaPrice_InvalidSelection(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		flavors []Flavor
		extras  []Extra
	}{
		{name: "no flavors", size: grande, flavors: nil},
		{name: "too many flavors", size: media, flavors: []Flavor{calabresa, mussarela, camarao}},
		{name: "unknown flavor type", size: grande, flavors: []Flavor{{Name: "X", Type: "GOURMET"}}},
		{name: "zero extra quantity", size: grande, flavors: []Flavor{calabresa}, extras: []Extra{{Name: "Bacon", Price: dec("6.50")}}},
		{name: "extra for another size", size: media, flavors: []Flavor{calabresa}, extras: []Extra{{Name: "Borda", Price: dec("8"), Quantity: 1, SizeName: "Grande"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePizzaPrice(tt.size, tt.flavors, tt.extras, false)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("expected ErrInvalidSelection, got: %v", err)
			}
		})
	}
}

func TestComputePizzaPrice_Deterministic(t *testing.T) {
	flavors := []Flavor{calabresa, camarao, quatroQ}
	extras := []Extra{{Name: "Bacon", Price: dec("6.50"), Quantity: 3}}

	first, err := ComputePizzaPrice(grande, flavors, extras, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := ComputePizzaPrice(grande, flavors, extras, true)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if !got.Equal(first) {
			t.Fatalf("run %d: got %s, want %s", i, got, first)
		}
	}
}

func TestComputePizzaPrice_FlavorCountNeverExceedsSize(t *testing.T) {
	pool := []Flavor{calabresa, mussarela, camarao, fileMignon, quatroQ, portuguesa}
	for max := 1; max <= 4; max++ {
		size := Size{Name: "Teste", MaxFlavors: max, BasePrice: dec("30")}
		for n := 1; n <= len(pool); n++ {
			_, err := ComputePizzaPrice(size, pool[:n], nil, false)
			if n > max && !errors.Is(err, ErrInvalidSelection) {
				t.Errorf("max=%d n=%d: expected ErrInvalidSelection, got %v", max, n, err)
			}
			if n <= max && err != nil {
				t.Errorf("max=%d n=%d: unexpected error %v", max, n, err)
			}
		}
	}
}

func TestComputeLine(t *testing.T) {
	t.Run("pizza line multiplies by quantity", func(t *testing.T) {
		size := grande
		unit, total, err := ComputeLine(Line{
			IsPizza:      true,
			Size:         &size,
			Flavors:      []Flavor{calabresa, camarao},
			StuffedCrust: true,
			Quantity:     2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !unit.Equal(dec("64.99")) {
			t.Errorf("unit: got %s, want 64.99", unit)
		}
		if !total.Equal(dec("129.98")) {
			t.Errorf("total: got %s, want 129.98", total)
		}
	})

	t.Run("second pizza adds its surcharges and crust", func(t *testing.T) {
		size := grande
		unit, _, err := ComputeLine(Line{
			IsPizza:       true,
			Size:          &size,
			Flavors:       []Flavor{calabresa},
			SecondFlavors: []Flavor{quatroQ, mussarela},
			StuffedCrust:  true,
			Quantity:      1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 45 + 4.99 (first crust) + 20 (especial) + 4.99 (second crust)
		if !unit.Equal(dec("74.98")) {
			t.Errorf("unit: got %s, want 74.98", unit)
		}
	})

	t.Run("second pizza respects max flavors", func(t *testing.T) {
		size := media
		_, _, err := ComputeLine(Line{
			IsPizza:       true,
			Size:          &size,
			Flavors:       []Flavor{calabresa},
			SecondFlavors: []Flavor{calabresa, mussarela, camarao},
			Quantity:      1,
		})
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got: %v", err)
		}
	})

	t.Run("plain product uses combo price and extras", func(t *testing.T) {
		unit, total, err := ComputeLine(Line{
			ComboPrice: dec("12.00"),
			Extras:     []Extra{{Name: "Gelo", Price: dec("0.50"), Quantity: 2}},
			Quantity:   3,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !unit.Equal(dec("13.00")) || !total.Equal(dec("39.00")) {
			t.Errorf("got unit=%s total=%s, want 13.00/39.00", unit, total)
		}
	})

	t.Run("plain product rejects flavors", func(t *testing.T) {
		_, _, err := ComputeLine(Line{ComboPrice: dec("12"), Flavors: []Flavor{calabresa}, Quantity: 1})
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got: %v", err)
		}
	})

	t.Run("pizza flavors without size", func(t *testing.T) {
		_, _, err := ComputeLine(Line{IsPizza: true, Flavors: []Flavor{calabresa}, Quantity: 1})
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got: %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, _, err := ComputeLine(Line{ComboPrice: dec("12"), Quantity: 0})
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got: %v", err)
		}
	})
}
