package timerange

// Editor applies picker edits to a controlled TimeRange. Each edit replaces
// the value wholesale and reports it through onChange; the model is never
// left partial.
type Editor struct {
	value    TimeRange
	onChange func(TimeRange)
}

// NewEditor wraps value. A nil value is replaced by Default and reported
// once, so the owner never holds an unset range.
func NewEditor(value TimeRange, onChange func(TimeRange)) *Editor {
	e := &Editor{value: value, onChange: onChange}
	if value == nil {
		e.set(Default)
	}
	return e
}

// Value returns the current range.
func (e *Editor) Value() TimeRange {
	return e.value
}

// SetValue mirrors an external change without reporting it.
func (e *Editor) SetValue(v TimeRange) {
	if v == nil {
		v = Default
	}
	e.value = v
}

// SelectRecent picks a recent-duration preset.
func (e *Editor) SelectRecent(seconds int64) {
	e.set(Recent{Seconds: seconds})
}

// PickAbsolute picks a fixed window. Inverted pairs are rejected and the
// value is left unchanged.
func (e *Editor) PickAbsolute(start, end int64) error {
	r := Absolute{Start: start, End: end}
	if err := Validate(r); err != nil {
		return err
	}
	e.set(r)
	return nil
}

// ClearAbsolute handles the absolute picker being cleared.
func (e *Editor) ClearAbsolute() {
	e.set(Default)
}

// IsActivePreset reports whether seconds is the currently selected preset.
func (e *Editor) IsActivePreset(seconds int64) bool {
	r, ok := e.value.(Recent)
	return ok && r.Seconds == seconds
}

// AbsolutePair returns the picker's pair, or ok=false when the current value
// is not absolute.
func (e *Editor) AbsolutePair() (start, end int64, ok bool) {
	a, ok := e.value.(Absolute)
	return a.Start, a.End, ok
}

func (e *Editor) set(v TimeRange) {
	e.value = v
	if e.onChange != nil {
		e.onChange(v)
	}
}
