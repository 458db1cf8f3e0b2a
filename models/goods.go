package models

// Goods is one cargo line on a lorry receipt.
type Goods struct {
	Description string  `json:"description" bson:"description"`
	Quantity    string  `json:"quantity" bson:"quantity"`
	WeightKG    float64 `json:"weight_kg,omitempty" bson:"weight_kg,omitempty"`
}
