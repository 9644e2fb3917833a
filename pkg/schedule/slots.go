package schedule

import "fmt"

// Window is a spot's single daily open interval. End may be "24:00".
// Windows never wrap midnight; a window whose start equals its end is
// empty.
type Window struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

func (w Window) Span() (Span, error) {
	start, err := ParseMinute(w.Start)
	if err != nil {
		return Span{}, err
	}
	end, err := ParseMinute(w.End)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: end}, nil
}

// NamedSlot is one of the four fixed quarter-day windows offered at spot
// creation time.
type NamedSlot struct {
	Name  string
	Start string
	End   string
}

// namedSlots is the immutable slot table in canonical order. Window
// derivation depends on this order, not on the raw start/end values.
var namedSlots = [...]NamedSlot{
	{Name: "morning", Start: "06:00", End: "12:00"},
	{Name: "afternoon", Start: "12:00", End: "18:00"},
	{Name: "evening", Start: "18:00", End: "24:00"},
	{Name: "night", Start: "00:00", End: "06:00"},
}

// SlotNames returns the slot names in canonical order.
func SlotNames() []string {
	names := make([]string, len(namedSlots))
	for i, s := range namedSlots {
		names[i] = s.Name
	}
	return names
}

// ValidSlotName reports whether name is one of the fixed slots.
func ValidSlotName(name string) bool {
	for _, s := range namedSlots {
		if s.Name == name {
			return true
		}
	}
	return false
}

// DeriveWindow computes a spot's daily window from the selected slot
// names: the span runs from the first selected slot's start to the last
// selected slot's end, walking the canonical order. Non-adjacent
// selections therefore cover the slots between them, and {morning, night}
// yields 06:00-06:00. At least one slot must be selected.
func DeriveWindow(selected []string) (Window, error) {
	for _, name := range selected {
		if !ValidSlotName(name) {
			return Window{}, fmt.Errorf("unknown time slot %q", name)
		}
	}

	var picked []NamedSlot
	for _, s := range namedSlots {
		for _, name := range selected {
			if s.Name == name {
				picked = append(picked, s)
				break
			}
		}
	}

	if len(picked) == 0 {
		return Window{}, fmt.Errorf("at least one time slot must be selected")
	}

	return Window{
		Start: picked[0].Start,
		End:   picked[len(picked)-1].End,
	}, nil
}
