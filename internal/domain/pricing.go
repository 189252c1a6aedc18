package domain

import "github.com/shopspring/decimal"

// ComputePricing derives the order breakdown from line items and store
// settings. Customization fees apply per customized unit; shipping is waived
// when the subtotal reaches a non-zero free-shipping threshold.
func ComputePricing(items []OrderItem, settings *Settings) Pricing {
	if settings == nil {
		settings = DefaultSettings()
	}

	subtotal := decimal.Zero
	customizedUnits := int64(0)
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(qty))
		if item.Customization != nil {
			customizedUnits += int64(item.Quantity)
		}
	}

	customization := decimal.NewFromFloat(settings.CustomizationFee).Mul(decimal.NewFromInt(customizedUnits))

	shipping := decimal.NewFromFloat(settings.ShippingFee)
	threshold := decimal.NewFromFloat(settings.FreeShippingThreshold)
	if len(items) == 0 || (threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold)) {
		shipping = decimal.Zero
	}

	total := subtotal.Add(customization).Add(shipping)

	return Pricing{
		Subtotal:         subtotal.Round(2).InexactFloat64(),
		CustomizationFee: customization.Round(2).InexactFloat64(),
		Shipping:         shipping.Round(2).InexactFloat64(),
		Total:            total.Round(2).InexactFloat64(),
	}
}

// ToMinorUnits converts a rupee amount to paise, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
