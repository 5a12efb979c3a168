package bitmask

// CornerSet selects which family of neighbor smoothing a cutter produces,
// and therefore which CornerTypes its input atlas must supply.
type CornerSet int

const (
	// CornerSetCardinal smooths with the four cardinal neighbors: 16
	// adjacency states, corners {Convex, Concave, Horizontal, Vertical}.
	CornerSetCardinal CornerSet = iota
	// CornerSetStandardDiagonal smooths with all eight neighbors: 256
	// adjacency states, adds the Flat corner.
	CornerSetStandardDiagonal
	// CornerSetCornerDiagonal is StandardDiagonal plus inner/outer
	// corner-diagonal sub-variants.
	CornerSetCornerDiagonal
)

func (c CornerSet) String() string {
	switch c {
	case CornerSetCardinal:
		return "Cardinal"
	case CornerSetStandardDiagonal:
		return "StandardDiagonal"
	case CornerSetCornerDiagonal:
		return "CornerDiagonal"
	default:
		return "invalid_corner_set"
	}
}

// ParseCornerSet parses the textual form used in configuration.
func ParseCornerSet(s string) (CornerSet, bool) {
	switch s {
	case "Cardinal", "":
		return CornerSetCardinal, true
	case "StandardDiagonal":
		return CornerSetStandardDiagonal, true
	case "CornerDiagonal":
		return CornerSetCornerDiagonal, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler so a CornerSet can be used
// as a scalar TOML value.
func (c CornerSet) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so a CornerSet can be
// decoded from a scalar TOML value.
func (c *CornerSet) UnmarshalText(text []byte) error {
	parsed, ok := ParseCornerSet(string(text))
	if !ok {
		return &ConfigError{Reason: "unknown corner set " + string(text)}
	}
	*c = parsed
	return nil
}

// PossibleBitStates returns the size of the adjacency powerset this corner
// set enumerates over (16 for Cardinal, 256 for the two diagonal sets).
func (c CornerSet) PossibleBitStates() int {
	switch c {
	case CornerSetCardinal:
		return 1 << 4
	default:
		return 1 << 8
	}
}

// CornersUsed returns the CornerTypes this corner set's input atlas must
// supply, in the fixed order the atlas columns are laid out.
func (c CornerSet) CornersUsed() []CornerType {
	switch c {
	case CornerSetCardinal:
		return []CornerType{Convex, Concave, Horizontal, Vertical}
	case CornerSetStandardDiagonal:
		return []CornerType{Convex, Concave, Horizontal, Vertical, Flat}
	case CornerSetCornerDiagonal:
		return []CornerType{
			Convex, Concave, Horizontal, Vertical, Flat,
			BottomRightInner, BottomLeftInner, TopRightInner, TopLeftInner,
			BottomRightOuter, BottomLeftOuter, TopRightOuter, TopLeftOuter,
		}
	default:
		return nil
	}
}

// OutputAdjacencies enumerates every adjacency state an operation
// configured with this corner set must emit a composed frame for.
// CornerDiagonal additionally expands each diagonal-cardinal
// combination (e.g. N|E) into an extra INNER_EDGE variant, and each
// "filled diagonal" (e.g. N|E|NE) into an extra OUTER_EDGE variant.
func (c CornerSet) OutputAdjacencies() []Adjacency {
	states := c.PossibleBitStates()
	if c != CornerSetCornerDiagonal {
		out := make([]Adjacency, 0, states)
		for bits := 0; bits < states; bits++ {
			a, ok := FromBits(uint16(bits))
			if !ok {
				continue
			}
			out = append(out, a)
		}
		return out
	}

	innerCorners := DiagonalCardinals()
	outerCorners := FilledDiagonals()
	isIn := func(set [4]Adjacency, a Adjacency) bool {
		for _, x := range set {
			if x == a {
				return true
			}
		}
		return false
	}

	out := make([]Adjacency, 0, states*2)
	for bits := 0; bits < states; bits++ {
		a, ok := FromBits(uint16(bits))
		if !ok {
			continue
		}
		switch {
		case isIn(innerCorners, a):
			out = append(out, a, a|InnerEdge)
		case isIn(outerCorners, a):
			out = append(out, a, a|OuterEdge)
		default:
			out = append(out, a)
		}
	}
	return out
}
