package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/noname01054/LaCoupole-back/domain"

	"github.com/google/uuid"
)

type (
	// Verifier recomputes the authoritative total for a submitted cart against
	// current catalog prices. It only issues read queries and runs fully
	// before any write.
	Verifier interface {
		Verify(ctx context.Context, req domain.CreateOrderRequest) (*VerifiedCart, error)
	}

	verifier struct {
		catalog CatalogRepository
	}
)

// VerifiedLine is a menu-item cart line with its server-computed unit price.
// PrimarySupplementID carries the first requested supplement for the persisted
// order item.
type VerifiedLine struct {
	ItemID              uuid.UUID
	Quantity            int
	UnitPrice           float64
	PrimarySupplementID *uuid.UUID
}

// VerifiedBreakfastLine is one coalesced breakfast order line: repeated cart
// lines for the same breakfast are merged with summed quantity and unioned
// option set.
type VerifiedBreakfastLine struct {
	BreakfastID uuid.UUID
	Quantity    int
	UnitPrice   float64
	OptionIDs   []uuid.UUID
}

type VerifiedCart struct {
	Total          float64
	Lines          []VerifiedLine
	BreakfastLines []VerifiedBreakfastLine
	PromotionID    *uuid.UUID
}

// pricedLine keeps the pre-coalescing view of the cart for promotion overlay
// recomputation. ItemID is nil for breakfast lines.
type pricedLine struct {
	ItemID    *uuid.UUID
	Quantity  int
	UnitPrice float64
}

func NewVerifier(catalog CatalogRepository) Verifier {
	return &verifier{catalog: catalog}
}

func (v *verifier) Verify(ctx context.Context, req domain.CreateOrderRequest) (*VerifiedCart, error) {
	if len(req.Items) == 0 && len(req.BreakfastItems) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	cart := &VerifiedCart{}
	var priced []pricedLine
	var total float64

	for _, line := range req.Items {
		verified, err := v.verifyMenuItemLine(ctx, line)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, *verified)
		priced = append(priced, pricedLine{ItemID: &verified.ItemID, Quantity: verified.Quantity, UnitPrice: verified.UnitPrice})
		total += float64(verified.Quantity) * verified.UnitPrice
	}

	breakfastLines, breakfastPriced, breakfastTotal, err := v.verifyBreakfastLines(ctx, req.BreakfastItems)
	if err != nil {
		return nil, err
	}
	cart.BreakfastLines = breakfastLines
	priced = append(priced, breakfastPriced...)
	total += breakfastTotal

	if req.PromotionID != nil {
		promoTotal, promoID, err := v.applyPromotion(ctx, *req.PromotionID, priced)
		if err != nil {
			return nil, err
		}
		if promoID != nil {
			total = promoTotal
			cart.PromotionID = promoID
		}
	}

	if math.Abs(req.TotalPrice-total) > domain.PriceTolerance {
		return nil, fmt.Errorf("%w: expected %.2f, got %.2f", domain.ErrTotalPriceMismatch, total, req.TotalPrice)
	}

	cart.Total = total
	return cart, nil
}

func (v *verifier) verifyMenuItemLine(ctx context.Context, line domain.OrderItemRequest) (*VerifiedLine, error) {
	itemID, err := uuid.Parse(line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: item_id %q", domain.ErrParseUUID, line.ItemID)
	}

	item, err := v.catalog.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Availability {
		return nil, fmt.Errorf("%w: item %s", domain.ErrItemUnavailable, line.ItemID)
	}

	expected := item.RegularPrice
	if item.SalePrice != nil {
		expected = *item.SalePrice
	}

	var primarySupplement *uuid.UUID
	if len(line.SupplementIDs) > 0 {
		supplementIDs, err := parseUniqueIDs(line.SupplementIDs)
		if err != nil {
			return nil, err
		}
		rows, err := v.catalog.GetSupplementPrices(ctx, itemID, supplementIDs)
		if err != nil {
			return nil, err
		}
		// Detection rule: the found set must match the requested set.
		if len(rows) != len(supplementIDs) {
			return nil, fmt.Errorf("%w: for item %s", domain.ErrInvalidSupplement, item.Name)
		}
		for _, row := range rows {
			expected += row.AdditionalPrice
		}
		primarySupplement = &supplementIDs[0]
	}

	if math.Abs(line.UnitPrice-expected) > domain.PriceTolerance {
		return nil, fmt.Errorf("%w: %s expected %.2f, got %.2f", domain.ErrPriceMismatch, item.Name, expected, line.UnitPrice)
	}

	return &VerifiedLine{
		ItemID:              itemID,
		Quantity:            line.Quantity,
		UnitPrice:           expected,
		PrimarySupplementID: primarySupplement,
	}, nil
}

func (v *verifier) verifyBreakfastLines(ctx context.Context, lines []domain.BreakfastItemRequest) ([]VerifiedBreakfastLine, []pricedLine, float64, error) {
	type aggregate struct {
		quantity  int
		optionIDs []uuid.UUID
		seen      map[uuid.UUID]bool
		basePrice float64
	}

	var order []uuid.UUID
	aggregates := make(map[uuid.UUID]*aggregate)
	optionPrices := make(map[uuid.UUID]float64)
	var priced []pricedLine
	var total float64

	for _, line := range lines {
		breakfastID, err := uuid.Parse(line.BreakfastID)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("%w: breakfast_id %q", domain.ErrParseUUID, line.BreakfastID)
		}

		breakfast, err := v.catalog.GetBreakfast(ctx, breakfastID)
		if err != nil {
			return nil, nil, 0, err
		}
		if breakfast == nil || !breakfast.Availability {
			return nil, nil, 0, fmt.Errorf("%w: breakfast %s", domain.ErrItemUnavailable, line.BreakfastID)
		}

		groups, err := v.catalog.GetBreakfastGroups(ctx, breakfastID)
		if err != nil {
			return nil, nil, 0, err
		}

		expected := breakfast.Price
		var optionIDs []uuid.UUID
		if len(line.OptionIDs) > 0 {
			optionIDs, err = parseUniqueIDs(line.OptionIDs)
			if err != nil {
				return nil, nil, 0, err
			}
			options, err := v.catalog.GetOptions(ctx, optionIDs)
			if err != nil {
				return nil, nil, 0, err
			}
			if len(options) != len(optionIDs) {
				return nil, nil, 0, fmt.Errorf("%w: for breakfast %s", domain.ErrInvalidOption, breakfast.Name)
			}

			selected := make(map[uuid.UUID]int, len(options))
			for _, option := range options {
				selected[option.GroupID]++
				optionPrices[option.ID] = option.AdditionalPrice
				expected += option.AdditionalPrice
			}
			var missing []string
			for _, group := range groups {
				if group.IsRequired && selected[group.ID] == 0 {
					missing = append(missing, group.Title)
				}
				if group.MaxSelections > 0 && selected[group.ID] > group.MaxSelections {
					return nil, nil, 0, fmt.Errorf("%w: %s allows at most %d",
						domain.ErrTooManySelections, group.Title, group.MaxSelections)
				}
			}
			if len(missing) > 0 {
				return nil, nil, 0, fmt.Errorf("%w: %s", domain.ErrMissingRequiredGroup, strings.Join(missing, ", "))
			}
		} else {
			var required []string
			for _, group := range groups {
				if group.IsRequired {
					required = append(required, group.Title)
				}
			}
			if len(required) > 0 {
				return nil, nil, 0, fmt.Errorf("%w: %s", domain.ErrMissingRequiredGroup, strings.Join(required, ", "))
			}
		}

		// The server accepts a claimed unit price above the expected one but
		// rejects anything below it.
		if line.UnitPrice < expected-domain.PriceTolerance {
			return nil, nil, 0, fmt.Errorf("%w: %s expected %.2f, got %.2f", domain.ErrPriceMismatch, breakfast.Name, expected, line.UnitPrice)
		}

		priced = append(priced, pricedLine{Quantity: line.Quantity, UnitPrice: expected})
		total += float64(line.Quantity) * expected

		agg, ok := aggregates[breakfastID]
		if !ok {
			agg = &aggregate{seen: make(map[uuid.UUID]bool), basePrice: breakfast.Price}
			aggregates[breakfastID] = agg
			order = append(order, breakfastID)
		}
		agg.quantity += line.Quantity
		for _, id := range optionIDs {
			if !agg.seen[id] {
				agg.seen[id] = true
				agg.optionIDs = append(agg.optionIDs, id)
			}
		}
	}

	coalesced := make([]VerifiedBreakfastLine, 0, len(order))
	for _, breakfastID := range order {
		agg := aggregates[breakfastID]
		unit := agg.basePrice
		for _, id := range agg.optionIDs {
			unit += optionPrices[id]
		}
		coalesced = append(coalesced, VerifiedBreakfastLine{
			BreakfastID: breakfastID,
			Quantity:    agg.quantity,
			UnitPrice:   unit,
			OptionIDs:   agg.optionIDs,
		})
	}

	return coalesced, priced, total, nil
}

// applyPromotion recomputes the whole cart total with the discount applied to
// matching lines. Store-wide promotions (nil item id) discount every line;
// item-scoped ones only the matching menu item. An inactive or expired
// promotion leaves the total untouched.
func (v *verifier) applyPromotion(ctx context.Context, promotionID string, priced []pricedLine) (float64, *uuid.UUID, error) {
	id, err := uuid.Parse(promotionID)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: promotion_id %q", domain.ErrParseUUID, promotionID)
	}

	promotion, err := v.catalog.GetActivePromotion(ctx, id, time.Now())
	if err != nil {
		return 0, nil, err
	}
	if promotion == nil {
		return 0, nil, nil
	}

	factor := 1 - promotion.DiscountPercentage/100
	var total float64
	for _, line := range priced {
		unit := line.UnitPrice
		if promotion.ItemID == nil || (line.ItemID != nil && *promotion.ItemID == *line.ItemID) {
			unit *= factor
		}
		total += float64(line.Quantity) * unit
	}
	return total, &promotion.ID, nil
}

func parseUniqueIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrParseUUID, value)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
