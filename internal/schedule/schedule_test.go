package schedule

import (
	"testing"
	"time"
)

var now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestPicker(opts ...Option) *Picker {
	opts = append(opts, WithNow(func() time.Time { return now }))
	return NewPicker(opts...)
}

func mustSetPickup(t *testing.T, p *Picker, at time.Time) {
	t.Helper()
	if err := p.Open(SlotPickup); err != nil {
		t.Fatalf("open pickup: %v", err)
	}
	if err := p.Confirm(SlotPickup, at); err != nil {
		t.Fatalf("confirm pickup: %v", err)
	}
}

func TestDeliveryGatedOnPickup(t *testing.T) {
	p := newTestPicker()

	if err := p.Open(SlotDelivery); err != ErrPickupNotSet {
		t.Fatalf("expected ErrPickupNotSet, got %v", err)
	}

	mustSetPickup(t, p, now.Add(2*time.Hour))
	if err := p.Open(SlotDelivery); err != nil {
		t.Fatalf("open delivery after pickup set: %v", err)
	}
}

func TestDeliveryMinimumOffset(t *testing.T) {
	pickupAt := now.Add(2 * time.Hour)

	cases := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{"thirty minutes rejected", 30 * time.Minute, ErrBeforeMinimum},
		{"exactly one hour accepted", time.Hour, nil},
		{"sixty-one minutes accepted", 61 * time.Minute, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPicker()
			mustSetPickup(t, p, pickupAt)

			if err := p.Open(SlotDelivery); err != nil {
				t.Fatalf("open delivery: %v", err)
			}
			err := p.Confirm(SlotDelivery, pickupAt.Add(tc.offset))
			if err != tc.wantErr {
				t.Fatalf("confirm delivery = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil && p.State(SlotDelivery) == StateSet {
				t.Error("delivery became Set despite rejected confirm")
			}
		})
	}
}

func TestNewPickupResetsDelivery(t *testing.T) {
	p := newTestPicker()
	pickupAt := now.Add(2 * time.Hour)
	mustSetPickup(t, p, pickupAt)

	_ = p.Open(SlotDelivery)
	if err := p.Confirm(SlotDelivery, pickupAt.Add(2*time.Hour)); err != nil {
		t.Fatalf("confirm delivery: %v", err)
	}

	mustSetPickup(t, p, pickupAt.Add(time.Hour))

	if p.State(SlotDelivery) != StateUnset {
		t.Errorf("delivery state = %v after new pickup, want Unset", p.State(SlotDelivery))
	}
	if _, err := p.Window(); err != ErrIncompleteWindow {
		t.Errorf("window error = %v, want ErrIncompleteWindow", err)
	}
}

func TestCancelRestoresPriorState(t *testing.T) {
	p := newTestPicker()
	pickupAt := now.Add(2 * time.Hour)
	mustSetPickup(t, p, pickupAt)

	if err := p.Open(SlotPickup); err != nil {
		t.Fatalf("reopen pickup: %v", err)
	}
	if err := p.Cancel(SlotPickup); err != nil {
		t.Fatalf("cancel pickup: %v", err)
	}

	if p.State(SlotPickup) != StateSet {
		t.Errorf("pickup state = %v after cancel, want Set", p.State(SlotPickup))
	}
	if v, ok := p.Value(SlotPickup); !ok || !v.Equal(pickupAt) {
		t.Errorf("pickup value = %v (%v), want %v", v, ok, pickupAt)
	}

	t.Run("cancel with no prior value returns to Unset", func(t *testing.T) {
		p := newTestPicker()
		_ = p.Open(SlotPickup)
		_ = p.Cancel(SlotPickup)
		if p.State(SlotPickup) != StateUnset {
			t.Errorf("pickup state = %v, want Unset", p.State(SlotPickup))
		}
	})
}

func TestTwoStepSelection(t *testing.T) {
	p := newTestPicker(WithTwoStepSelection())

	if err := p.Open(SlotPickup); err != nil {
		t.Fatalf("open pickup: %v", err)
	}
	if p.State(SlotPickup) != StateSelectingDate {
		t.Fatalf("state = %v, want SelectingDate", p.State(SlotPickup))
	}

	// Time step cannot run before the date step.
	if err := p.ConfirmTime(SlotPickup, 14, 30); err != ErrWrongStep {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}

	if err := p.ConfirmDate(SlotPickup, 2026, time.March, 11); err != nil {
		t.Fatalf("confirm date: %v", err)
	}
	if p.State(SlotPickup) != StateSelectingTime {
		t.Fatalf("state = %v, want SelectingTime", p.State(SlotPickup))
	}

	if err := p.ConfirmTime(SlotPickup, 14, 30); err != nil {
		t.Fatalf("confirm time: %v", err)
	}

	v, ok := p.Value(SlotPickup)
	if !ok {
		t.Fatal("pickup not Set after two-step confirm")
	}
	if v.Hour() != 14 || v.Minute() != 30 || v.Day() != 11 {
		t.Errorf("pickup value = %v, want March 11 14:30", v)
	}

	t.Run("cancel at time step aborts cleanly", func(t *testing.T) {
		p := newTestPicker(WithTwoStepSelection())
		_ = p.Open(SlotPickup)
		_ = p.ConfirmDate(SlotPickup, 2026, time.March, 11)
		_ = p.Cancel(SlotPickup)
		if p.State(SlotPickup) != StateUnset {
			t.Errorf("state = %v after cancel, want Unset", p.State(SlotPickup))
		}
	})
}

func TestPickupBeforeNowRejected(t *testing.T) {
	p := newTestPicker()
	_ = p.Open(SlotPickup)
	if err := p.Confirm(SlotPickup, now.Add(-time.Minute)); err != ErrBeforeMinimum {
		t.Fatalf("expected ErrBeforeMinimum, got %v", err)
	}
}

func TestWindowValidate(t *testing.T) {
	pickupAt := now.Add(2 * time.Hour)

	t.Run("incomplete", func(t *testing.T) {
		w := Window{PickupAt: pickupAt}
		if err := w.Validate(); err != ErrIncompleteWindow {
			t.Fatalf("expected ErrIncompleteWindow, got %v", err)
		}
	})

	t.Run("too early", func(t *testing.T) {
		w := Window{PickupAt: pickupAt, DeliveryAt: pickupAt.Add(30 * time.Minute)}
		if err := w.Validate(); err != ErrBeforeMinimum {
			t.Fatalf("expected ErrBeforeMinimum, got %v", err)
		}
	})

	t.Run("exactly at minimum", func(t *testing.T) {
		w := Window{PickupAt: pickupAt, DeliveryAt: pickupAt.Add(time.Hour)}
		if err := w.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
