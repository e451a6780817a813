package domain

import "math"

// Delivery types accepted by the pricing table. Anything else silently falls
// back to the regular tier.
const (
	DeliveryTypeSameDay = "same_day"
	DeliveryTypeNextDay = "next_day"
	DeliveryTypeRegular = "reguler"
)

// minimumPrice is the floor applied to every quote, in rupiah.
const minimumPrice = 10000

var baseRates = map[string]int64{
	DeliveryTypeSameDay: 15000,
	DeliveryTypeNextDay: 10000,
	DeliveryTypeRegular: 8000,
}

// weightRates are charged per started kilogram.
var weightRates = map[string]int64{
	DeliveryTypeSameDay: 1000,
	DeliveryTypeNextDay: 800,
	DeliveryTypeRegular: 500,
}

type distanceTiers struct {
	tier1 int64 // <= 50 km
	tier2 int64 // <= 100 km, added on top of tier1
	tier3 int64 // > 100 km, per started 100 km beyond the first hundred
}

var distanceRates = map[string]distanceTiers{
	DeliveryTypeSameDay: {tier1: 8000, tier2: 12000, tier3: 15000},
	DeliveryTypeNextDay: {tier1: 6000, tier2: 9000, tier3: 12000},
	DeliveryTypeRegular: {tier1: 4000, tier2: 6000, tier3: 8000},
}

// Quote is the price breakdown for a shipment.
type Quote struct {
	BasePrice     int64 `json:"base_price"`
	WeightPrice   int64 `json:"weight_price"`
	DistancePrice int64 `json:"distance_price"`
	TotalPrice    int64 `json:"total_price"`
}

// CalculateShippingCost prices a shipment from distance, weight and delivery
// type. Pure and deterministic: same inputs always produce the same quote.
// Unknown delivery types use the regular rates.
func CalculateShippingCost(distanceKm float64, weightGrams int, deliveryType string) Quote {
	base, ok := baseRates[deliveryType]
	if !ok {
		base = baseRates[DeliveryTypeRegular]
	}
	weightRate, ok := weightRates[deliveryType]
	if !ok {
		weightRate = weightRates[DeliveryTypeRegular]
	}
	tiers, ok := distanceRates[deliveryType]
	if !ok {
		tiers = distanceRates[DeliveryTypeRegular]
	}

	weightKg := int64(math.Ceil(float64(weightGrams) / 1000))
	weightPrice := weightKg * weightRate

	var distancePrice int64
	switch {
	case distanceKm <= 50:
		distancePrice = tiers.tier1
	case distanceKm <= 100:
		distancePrice = tiers.tier1 + tiers.tier2
	default:
		extraHundreds := int64(math.Ceil((distanceKm - 100) / 100))
		distancePrice = tiers.tier3 + extraHundreds*tiers.tier3
	}

	total := base + weightPrice + distancePrice
	if total < minimumPrice {
		total = minimumPrice
	}

	return Quote{
		BasePrice:     base,
		WeightPrice:   weightPrice,
		DistancePrice: distancePrice,
		TotalPrice:    total,
	}
}
