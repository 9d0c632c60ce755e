package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// LotPickPolicy defines the order in which lots are consumed for outbound stock
type LotPickPolicy string

const (
	// LotPickPolicyFEFO consumes lots by earliest expiry first
	LotPickPolicyFEFO LotPickPolicy = "FEFO"
	// LotPickPolicyFIFO consumes lots by earliest receipt first
	LotPickPolicyFIFO LotPickPolicy = "FIFO"
	// LotPickPolicySpecified consumes only the explicitly named lot
	LotPickPolicySpecified LotPickPolicy = "SPECIFIED"
)

// IsValid returns true if the policy is valid
func (p LotPickPolicy) IsValid() bool {
	switch p {
	case LotPickPolicyFEFO, LotPickPolicyFIFO, LotPickPolicySpecified:
		return true
	}
	return false
}

// LotAvailability pairs a lot with its remaining quantity derived from the
// lot-level stock rows
type LotAvailability struct {
	Lot       *LotNumber
	Available decimal.Decimal
}

// LotSelection is one lot chosen to cover part of a requested quantity
type LotSelection struct {
	LotID     uuid.UUID
	LotNumber string
	Quantity  decimal.Decimal
}

// LotSelectionResult is the outcome of selecting lots for an outbound quantity
type LotSelectionResult struct {
	Selections []LotSelection
	Shortfall  decimal.Decimal
}

// IsFullyCovered returns true if the selected lots cover the full requested quantity
func (r LotSelectionResult) IsFullyCovered() bool {
	return r.Shortfall.IsZero()
}

// SelectLots chooses lots to cover the requested quantity under the given policy.
// Expired lots are never selected. FEFO orders by expiry date with undated lots
// last, ties broken by receipt date and then lot number so the result is
// deterministic. FIFO orders by receipt date, ties broken by lot number.
func SelectLots(
	policy LotPickPolicy,
	required decimal.Decimal,
	candidates []LotAvailability,
	now time.Time,
) (LotSelectionResult, error) {
	if !policy.IsValid() {
		return LotSelectionResult{}, shared.NewDomainError("INVALID_PICK_POLICY", "Invalid lot pick policy")
	}
	if policy == LotPickPolicySpecified {
		return LotSelectionResult{}, shared.NewDomainError("INVALID_PICK_POLICY", "Specified policy requires an explicit lot")
	}
	if !required.IsPositive() {
		return LotSelectionResult{}, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	usable := make([]LotAvailability, 0, len(candidates))
	for _, c := range candidates {
		if c.Lot == nil || !c.Available.IsPositive() {
			continue
		}
		if c.Lot.IsExpired(now) {
			continue
		}
		usable = append(usable, c)
	}

	switch policy {
	case LotPickPolicyFEFO:
		sort.Slice(usable, func(i, j int) bool {
			return lessFEFO(usable[i].Lot, usable[j].Lot)
		})
	case LotPickPolicyFIFO:
		sort.Slice(usable, func(i, j int) bool {
			return lessFIFO(usable[i].Lot, usable[j].Lot)
		})
	}

	return takeFromLots(usable, required), nil
}

// SelectSpecifiedLot validates that a caller-chosen lot can cover the quantity
func SelectSpecifiedLot(
	required decimal.Decimal,
	chosen LotAvailability,
	now time.Time,
) (LotSelectionResult, error) {
	if !required.IsPositive() {
		return LotSelectionResult{}, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}
	if chosen.Lot == nil {
		return LotSelectionResult{}, shared.ErrInvalidReference
	}
	if chosen.Lot.IsExpired(now) {
		return LotSelectionResult{}, shared.NewDomainError("LOT_EXPIRED", "Lot "+chosen.Lot.Number+" has expired")
	}
	if chosen.Available.LessThan(required) {
		return LotSelectionResult{}, shared.ErrInsufficientStock
	}

	return LotSelectionResult{
		Selections: []LotSelection{{
			LotID:     chosen.Lot.ID,
			LotNumber: chosen.Lot.Number,
			Quantity:  required,
		}},
		Shortfall: decimal.Zero,
	}, nil
}

func lessFEFO(a, b *LotNumber) bool {
	// Lots without expiry go last
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate == nil:
		return lessFIFO(a, b)
	case a.ExpiryDate == nil:
		return false
	case b.ExpiryDate == nil:
		return true
	}
	if !a.ExpiryDate.Equal(*b.ExpiryDate) {
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
	return lessFIFO(a, b)
}

func lessFIFO(a, b *LotNumber) bool {
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.Number < b.Number
}

func takeFromLots(ordered []LotAvailability, required decimal.Decimal) LotSelectionResult {
	result := LotSelectionResult{Shortfall: decimal.Zero}
	remaining := required

	for _, c := range ordered {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, c.Available)
		result.Selections = append(result.Selections, LotSelection{
			LotID:     c.Lot.ID,
			LotNumber: c.Lot.Number,
			Quantity:  take,
		})
		remaining = remaining.Sub(take)
	}

	result.Shortfall = remaining
	return result
}
