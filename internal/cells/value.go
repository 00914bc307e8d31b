package cells

import "maps"

// Value is the record stored at every cell address.
type Value struct {
	Color       Color
	State       State
	Label       string
	ColumnIndex int
	CellIndex   int
	Meta        map[string]string

	// ColorSet is true once a patch has written Color, so an explicit
	// black is told apart from no color at all.
	ColorSet bool
}

// Patch carries the fields of an update. Nil fields are left alone.
type Patch struct {
	Color       *Color
	State       *State
	Label       *string
	ColumnIndex *int
	CellIndex   *int
	Meta        map[string]string
}

func (p Patch) WithColor(c Color) Patch     { p.Color = &c; return p }
func (p Patch) WithState(s State) Patch     { p.State = &s; return p }
func (p Patch) WithLabel(l string) Patch    { p.Label = &l; return p }
func (p Patch) WithColumnIndex(i int) Patch { p.ColumnIndex = &i; return p }
func (p Patch) WithCellIndex(i int) Patch   { p.CellIndex = &i; return p }
func (p Patch) WithMeta(m map[string]string) Patch {
	p.Meta = m
	return p
}

// SetColor is shorthand for Patch{}.WithColor(c).
func SetColor(c Color) Patch { return Patch{}.WithColor(c) }

// SetState sets both the state and its table color.
func SetState(s State) (Patch, error) {
	info, err := LookupState(s)
	if err != nil {
		return Patch{}, err
	}
	return Patch{}.WithState(s).WithColor(info.Color), nil
}

// UpdateOptions suppress overwrites per field. Exclude holds sentinels: a
// field whose current value equals its sentinel is kept. Replace keeps any
// field whose current value is zero.
type UpdateOptions struct {
	Exclude *Patch
	Replace bool
}

func (o UpdateOptions) validate() error {
	if o.Exclude != nil && o.Replace {
		return ErrConflictingOptions
	}
	return nil
}

// mergeField reports whether the proposed value was written.
func mergeField[T comparable](cur *T, proposed, sentinel *T, replace bool) bool {
	if proposed == nil {
		return false
	}
	var zero T
	if replace && *cur == zero {
		return false
	}
	if sentinel != nil && *cur == *sentinel {
		return false
	}
	*cur = *proposed
	return true
}

// apply merges p into v. opts must already be validated.
func (p Patch) apply(v *Value, opts UpdateOptions) {
	var ex Patch
	if opts.Exclude != nil {
		ex = *opts.Exclude
	}
	if mergeField(&v.Color, p.Color, ex.Color, opts.Replace) {
		v.ColorSet = true
	}
	mergeField(&v.State, p.State, ex.State, opts.Replace)
	mergeField(&v.Label, p.Label, ex.Label, opts.Replace)
	mergeField(&v.ColumnIndex, p.ColumnIndex, ex.ColumnIndex, opts.Replace)
	mergeField(&v.CellIndex, p.CellIndex, ex.CellIndex, opts.Replace)
	if p.Meta != nil {
		switch {
		case opts.Replace && len(v.Meta) == 0:
		case ex.Meta != nil && maps.Equal(v.Meta, ex.Meta):
		default:
			v.Meta = maps.Clone(p.Meta)
		}
	}
}
