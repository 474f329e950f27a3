package address

import "errors"

var (
	// ErrDeliveryMirrored is returned when delivery staging is attempted
	// while "same as pickup" is enabled.
	ErrDeliveryMirrored = errors.New("address: delivery address mirrors pickup while same-as-pickup is on")

	// ErrUnknownSlot is returned for a slot kind that is neither pickup nor
	// delivery.
	ErrUnknownSlot = errors.New("address: unknown address slot")
)

// SlotKind selects which draft slot an address lands in.
type SlotKind string

const (
	SlotPickup   SlotKind = "pickup"
	SlotDelivery SlotKind = "delivery"
)

// Staging holds the pickup/delivery addresses of an order draft.
//
// While SameAsPickup is enabled, every pickup change mirrors into delivery
// and direct delivery staging is rejected; disabling it leaves the last
// mirrored value in place for further editing.
type Staging struct {
	pickup       Address
	delivery     Address
	sameAsPickup bool
}

func (s *Staging) Pickup() Address    { return s.pickup }
func (s *Staging) Delivery() Address  { return s.delivery }
func (s *Staging) SameAsPickup() bool { return s.sameAsPickup }

// Stage places a resolved address into the given slot.
func (s *Staging) Stage(slot SlotKind, a Address) error {
	switch slot {
	case SlotPickup:
		s.pickup = a
		if s.sameAsPickup {
			s.delivery = a
		}
	case SlotDelivery:
		if s.sameAsPickup {
			return ErrDeliveryMirrored
		}
		s.delivery = a
	default:
		return ErrUnknownSlot
	}
	return nil
}

// SetSameAsPickup toggles mirroring. Enabling it immediately copies the
// current pickup address into the delivery slot.
func (s *Staging) SetSameAsPickup(on bool) {
	s.sameAsPickup = on
	if on {
		s.delivery = s.pickup
	}
}
