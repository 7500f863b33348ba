package stock

import (
	"fmt"
	"sort"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/google/uuid"
)

type IngredientAmount struct {
	IngredientID uuid.UUID
	Quantity     float64
}

// LineRequirement describes one order line's ingredient consumption.
// UnitIngredients scale with the line quantity (menu item, primary supplement,
// breakfast); PerLineIngredients are charged once per line occurrence
// (selected breakfast options).
type LineRequirement struct {
	Quantity           int
	UnitIngredients    []IngredientAmount
	PerLineIngredients []IngredientAmount
}

// AggregateRequirements merges every line's consumption into a single
// ingredient to total-required map, combining duplicate ingredients across
// lines.
func AggregateRequirements(lines []LineRequirement) map[uuid.UUID]float64 {
	required := make(map[uuid.UUID]float64)
	for _, line := range lines {
		for _, amount := range line.UnitIngredients {
			required[amount.IngredientID] += amount.Quantity * float64(line.Quantity)
		}
		for _, amount := range line.PerLineIngredients {
			required[amount.IngredientID] += amount.Quantity
		}
	}
	return required
}

// checkAvailability validates the whole requirement set against the loaded
// stock rows before any quantity changes, so a shortage on any single
// ingredient rejects the entire deduction.
func checkAvailability(required map[uuid.UUID]float64, ingredients map[uuid.UUID]*entities.Ingredient) error {
	for _, ingredientID := range sortedIngredientIDs(required) {
		ingredient, ok := ingredients[ingredientID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, ingredientID)
		}
		amount := required[ingredientID]
		if ingredient.QuantityInStock < amount {
			return fmt.Errorf("%w: %s requires %.2f %s, available %.2f",
				domain.ErrInsufficientStock, ingredient.Name, amount, ingredient.Unit, ingredient.QuantityInStock)
		}
	}
	return nil
}

// restorationDecision applies the ledger's idempotency guards: nothing to
// restore when the order never deducted, hard failure when a restoration has
// already been recorded.
func restorationDecision(deducted bool, restorations int64) (bool, error) {
	if !deducted {
		return false, nil
	}
	if restorations > 0 {
		return false, domain.ErrAlreadyRestored
	}
	return true, nil
}

// sortedIngredientIDs fixes the iteration order so concurrent transactions
// lock ingredient rows in the same sequence.
func sortedIngredientIDs(required map[uuid.UUID]float64) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
