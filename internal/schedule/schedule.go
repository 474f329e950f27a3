// Package schedule models pickup/delivery time selection as a small state
// machine per slot.
//
// Each slot moves Unset → Selecting → Set; cancel restores whatever was
// there before. Delivery selection cannot open until pickup is Set, and
// confirming a new pickup time clears delivery so it must be re-chosen
// against the new minimum. On platforms without a combined date+time
// widget, Selecting decomposes into a date step followed by a time step.
package schedule

import (
	"errors"
	"time"
)

// MinDeliveryOffset is the minimum gap between pickup and delivery.
// Delivery at exactly pickup+offset is accepted.
const MinDeliveryOffset = time.Hour

var (
	ErrPickupNotSet     = errors.New("schedule: pickup time must be chosen before delivery")
	ErrNotSelecting     = errors.New("schedule: no selection in progress for slot")
	ErrWrongStep        = errors.New("schedule: selection is not at this step")
	ErrBeforeMinimum    = errors.New("schedule: chosen time is before the earliest allowed")
	ErrUnknownSlot      = errors.New("schedule: unknown slot")
	ErrIncompleteWindow = errors.New("schedule: both pickup and delivery must be set")
)

// Slot identifies one side of the schedule window.
type Slot string

const (
	SlotPickup   Slot = "pickup"
	SlotDelivery Slot = "delivery"
)

// State is the lifecycle of a slot's selection.
type State int

const (
	StateUnset State = iota
	StateSelecting
	StateSelectingDate // two-step variant, date step
	StateSelectingTime // two-step variant, time step
	StateSet
)

// Window is the confirmed result: both timestamps chosen and validated.
type Window struct {
	PickupAt   time.Time
	DeliveryAt time.Time
}

type slotState struct {
	state   State
	value   time.Time // valid only when state == StateSet
	pending time.Time // date carried between the two steps
}

// Picker drives the selection flow for both slots.
type Picker struct {
	twoStep  bool
	now      func() time.Time
	pickup   slotState
	delivery slotState
}

// Option configures a Picker.
type Option func(*Picker)

// WithTwoStepSelection enables the date-then-time flow used where no
// combined picker widget exists.
func WithTwoStepSelection() Option {
	return func(p *Picker) { p.twoStep = true }
}

// WithNow overrides the clock; used by tests.
func WithNow(now func() time.Time) Option {
	return func(p *Picker) { p.now = now }
}

func NewPicker(opts ...Option) *Picker {
	p := &Picker{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Picker) slot(s Slot) (*slotState, error) {
	switch s {
	case SlotPickup:
		return &p.pickup, nil
	case SlotDelivery:
		return &p.delivery, nil
	}
	return nil, ErrUnknownSlot
}

// State reports the current state of a slot.
func (p *Picker) State(s Slot) State {
	st, err := p.slot(s)
	if err != nil {
		return StateUnset
	}
	return st.state
}

// Value returns the confirmed time for a slot, ok=false while not Set.
func (p *Picker) Value(s Slot) (time.Time, bool) {
	st, err := p.slot(s)
	if err != nil || st.state != StateSet {
		return time.Time{}, false
	}
	return st.value, true
}

// Minimum is the earliest selectable time for a slot: now for pickup,
// pickup+MinDeliveryOffset for delivery. Exposing it lets the caller
// constrain its picker widget so invalid values cannot even be offered.
func (p *Picker) Minimum(s Slot) (time.Time, error) {
	switch s {
	case SlotPickup:
		return p.now(), nil
	case SlotDelivery:
		if p.pickup.state != StateSet {
			return time.Time{}, ErrPickupNotSet
		}
		return p.pickup.value.Add(MinDeliveryOffset), nil
	}
	return time.Time{}, ErrUnknownSlot
}

// Open begins selection for a slot. Opening delivery while pickup is Unset
// is rejected; the delivery entry point stays disabled until then.
func (p *Picker) Open(s Slot) error {
	st, err := p.slot(s)
	if err != nil {
		return err
	}
	if s == SlotDelivery && p.pickup.state != StateSet {
		return ErrPickupNotSet
	}
	if p.twoStep {
		st.state = StateSelectingDate
	} else {
		st.state = StateSelecting
	}
	return nil
}

// Cancel aborts an in-progress selection, restoring the slot to Set if it
// had a value and Unset otherwise. Cancelling an idle slot is a no-op.
func (p *Picker) Cancel(s Slot) error {
	st, err := p.slot(s)
	if err != nil {
		return err
	}
	switch st.state {
	case StateSelecting, StateSelectingDate, StateSelectingTime:
		st.pending = time.Time{}
		if st.value.IsZero() {
			st.state = StateUnset
		} else {
			st.state = StateSet
		}
	}
	return nil
}

// Confirm finalises a combined date+time selection.
func (p *Picker) Confirm(s Slot, t time.Time) error {
	st, err := p.slot(s)
	if err != nil {
		return err
	}
	if st.state != StateSelecting {
		return ErrNotSelecting
	}
	return p.commit(s, st, t)
}

// ConfirmDate records the date step of a two-step selection and advances
// to the time step.
func (p *Picker) ConfirmDate(s Slot, year int, month time.Month, day int) error {
	st, err := p.slot(s)
	if err != nil {
		return err
	}
	if st.state != StateSelectingDate {
		return ErrWrongStep
	}
	st.pending = time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	st.state = StateSelectingTime
	return nil
}

// ConfirmTime completes a two-step selection by combining the pending date
// with the chosen wall-clock time.
func (p *Picker) ConfirmTime(s Slot, hour, minute int) error {
	st, err := p.slot(s)
	if err != nil {
		return err
	}
	if st.state != StateSelectingTime {
		return ErrWrongStep
	}
	d := st.pending
	t := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
	return p.commit(s, st, t)
}

// commit validates t against the slot minimum and transitions to Set.
// A failed validation leaves the selection open so the caller can retry.
func (p *Picker) commit(s Slot, st *slotState, t time.Time) error {
	min, err := p.Minimum(s)
	if err != nil {
		return err
	}
	if t.Before(min) {
		return ErrBeforeMinimum
	}

	st.value = t
	st.pending = time.Time{}
	st.state = StateSet

	// A new pickup time invalidates any delivery choice made against the
	// old minimum.
	if s == SlotPickup {
		p.delivery = slotState{}
	}
	return nil
}

// Window returns the completed schedule, or ErrIncompleteWindow while
// either slot is not Set.
func (p *Picker) Window() (Window, error) {
	if p.pickup.state != StateSet || p.delivery.state != StateSet {
		return Window{}, ErrIncompleteWindow
	}
	return Window{PickupAt: p.pickup.value, DeliveryAt: p.delivery.value}, nil
}

// Complete reports whether w has both timestamps.
func (w Window) Complete() bool {
	return !w.PickupAt.IsZero() && !w.DeliveryAt.IsZero()
}

// Validate re-checks the delivery offset; used at submission time as a
// belt-and-braces guard independent of the picker.
func (w Window) Validate() error {
	if !w.Complete() {
		return ErrIncompleteWindow
	}
	if w.DeliveryAt.Before(w.PickupAt.Add(MinDeliveryOffset)) {
		return ErrBeforeMinimum
	}
	return nil
}
