package address

import "testing"

func addr(street string) Address {
	return Address{Street: street, City: "Springfield", State: "IL", Zip: "62704"}
}

func TestStagingSameAsPickup(t *testing.T) {
	t.Run("enabling copies pickup into delivery", func(t *testing.T) {
		var s Staging
		_ = s.Stage(SlotPickup, addr("123 Elm Street"))
		s.SetSameAsPickup(true)

		if got := s.Delivery().Street; got != "123 Elm Street" {
			t.Errorf("delivery street = %q, want mirror of pickup", got)
		}
	})

	t.Run("pickup changes keep mirroring while enabled", func(t *testing.T) {
		var s Staging
		_ = s.Stage(SlotPickup, addr("123 Elm Street"))
		s.SetSameAsPickup(true)
		_ = s.Stage(SlotPickup, addr("456 Oak Avenue"))

		if got := s.Delivery().Street; got != "456 Oak Avenue" {
			t.Errorf("delivery street = %q, want updated mirror", got)
		}
	})

	t.Run("direct delivery staging rejected while enabled", func(t *testing.T) {
		var s Staging
		_ = s.Stage(SlotPickup, addr("123 Elm Street"))
		s.SetSameAsPickup(true)

		if err := s.Stage(SlotDelivery, addr("789 Pine Road")); err != ErrDeliveryMirrored {
			t.Fatalf("expected ErrDeliveryMirrored, got %v", err)
		}
	})

	t.Run("disabling stops the mirror", func(t *testing.T) {
		var s Staging
		_ = s.Stage(SlotPickup, addr("123 Elm Street"))
		s.SetSameAsPickup(true)
		s.SetSameAsPickup(false)

		_ = s.Stage(SlotDelivery, addr("789 Pine Road"))
		_ = s.Stage(SlotPickup, addr("456 Oak Avenue"))

		if got := s.Delivery().Street; got != "789 Pine Road" {
			t.Errorf("delivery street = %q, want independent value", got)
		}
	})
}

func TestStageUnknownSlot(t *testing.T) {
	var s Staging
	_ = s.Stage(SlotPickup, addr("123 Elm Street"))

	if err := s.Stage(SlotKind("dropoff"), addr("789 Pine Road")); err != ErrUnknownSlot {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
	if got := s.Pickup().Street; got != "123 Elm Street" {
		t.Errorf("pickup street = %q, want unchanged", got)
	}
	if got := s.Delivery().Street; got != "" {
		t.Errorf("delivery street = %q, want empty", got)
	}
}
