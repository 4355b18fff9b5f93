// Package pricing computes pizza and cart line prices from catalog selections.
// All functions are pure: the same inputs always produce the same amount.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// ErrInvalidSelection is returned when a selection cannot be priced.
var ErrInvalidSelection = errors.New("invalid selection")

// Surcharges applied on top of the size base price.
var (
	PremiumSurcharge      = decimal.RequireFromString("15.00")
	EspecialSurcharge     = decimal.RequireFromString("20.00")
	StuffedCrustSurcharge = decimal.RequireFromString("4.99")
)

// Size is the priced part of a pizza size.
type Size struct {
	Name       string
	MaxFlavors int
	BasePrice  decimal.Decimal
}

// Flavor is a selected flavor. Type is one of the enum.FlavorType values.
type Flavor struct {
	Name string
	Type string
}

// Extra is a selected extra item with its quantity.
// SizeName, when set, restricts the extra to pizzas of that size.
type Extra struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	SizeName string
}

// ComputePizzaPrice returns the price of a single pizza.
func ComputePizzaPrice(size Size, flavors []Flavor, extras []Extra, stuffedCrust bool) (decimal.Decimal, error) {
	if err := validateFlavors(size, flavors); err != nil {
		return decimal.Zero, err
	}

	total := size.BasePrice.Add(flavorSurcharges(flavors))
	if stuffedCrust {
		total = total.Add(StuffedCrustSurcharge)
	}

	extrasTotal, err := sumExtras(extras, size.Name)
	if err != nil {
		return decimal.Zero, err
	}

	return total.Add(extrasTotal).Round(2), nil
}

// Line describes one cart line before pricing.
type Line struct {
	ComboPrice    decimal.Decimal
	IsPizza       bool
	Size          *Size
	Flavors       []Flavor
	SecondFlavors []Flavor
	Extras        []Extra
	StuffedCrust  bool
	Quantity      int
}

// ComputeLine returns the unit price and line total (unit × quantity).
//
// A pizza line with a size is priced from the size; the combo price is only
// used for products sold without a size selection.
func ComputeLine(l Line) (unit, total decimal.Decimal, err error) {
	if l.Quantity <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: quantity must be > 0", ErrInvalidSelection)
	}

	switch {
	case l.Size != nil:
		if !l.IsPizza {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: product does not take a size", ErrInvalidSelection)
		}
		unit, err = ComputePizzaPrice(*l.Size, l.Flavors, l.Extras, l.StuffedCrust)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if len(l.SecondFlavors) > 0 {
			if err := validateFlavors(*l.Size, l.SecondFlavors); err != nil {
				return decimal.Zero, decimal.Zero, fmt.Errorf("second pizza: %w", err)
			}
			unit = unit.Add(flavorSurcharges(l.SecondFlavors))
			if l.StuffedCrust {
				unit = unit.Add(StuffedCrustSurcharge)
			}
		}
	case l.IsPizza && len(l.Flavors) > 0:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: size is required", ErrInvalidSelection)
	default:
		if len(l.Flavors) > 0 || len(l.SecondFlavors) > 0 {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: product does not take flavors", ErrInvalidSelection)
		}
		if l.StuffedCrust {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: product does not take a crust", ErrInvalidSelection)
		}
		extrasTotal, err := sumExtras(l.Extras, "")
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		unit = l.ComboPrice.Add(extrasTotal)
	}

	unit = unit.Round(2)
	return unit, unit.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2), nil
}

func validateFlavors(size Size, flavors []Flavor) error {
	if len(flavors) == 0 {
		return fmt.Errorf("%w: at least one flavor is required", ErrInvalidSelection)
	}
	if len(flavors) > size.MaxFlavors {
		return fmt.Errorf("%w: %d flavors selected, %s allows %d", ErrInvalidSelection, len(flavors), size.Name, size.MaxFlavors)
	}
	for _, f := range flavors {
		if !enum.IsValidFlavorType(f.Type) {
			return fmt.Errorf("%w: unknown flavor type %q", ErrInvalidSelection, f.Type)
		}
	}
	return nil
}

// flavorSurcharges applies the tier rules: premium only counts on mixed
// pizzas, especial always counts.
func flavorSurcharges(flavors []Flavor) decimal.Decimal {
	var premium, especial int64
	for _, f := range flavors {
		switch f.Type {
		case enum.FlavorTypePremium:
			premium++
		case enum.FlavorTypeEspecial:
			especial++
		}
	}

	total := decimal.Zero
	if len(flavors) > 1 && premium > 0 {
		total = total.Add(PremiumSurcharge.Mul(decimal.NewFromInt(premium)))
	}
	return total.Add(EspecialSurcharge.Mul(decimal.NewFromInt(especial)))
}

func sumExtras(extras []Extra, sizeName string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range extras {
		if e.Quantity <= 0 {
			return decimal.Zero, fmt.Errorf("%w: extra %q quantity must be > 0", ErrInvalidSelection, e.Name)
		}
		if e.SizeName != "" && !strings.EqualFold(e.SizeName, sizeName) {
			return decimal.Zero, fmt.Errorf("%w: extra %q is only available for size %s", ErrInvalidSelection, e.Name, e.SizeName)
		}
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total, nil
}
