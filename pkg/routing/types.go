package routing

import "fmt"

// ResourceType identifies a kind of resource; Tag carries auxiliary data that
// must also match for two stacks to merge.
type ResourceType struct {
	ID  string `json:"id" yaml:"id"`
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// String renders the type as id or id{tag}.
func (t ResourceType) String() string {
	if t.Tag == "" {
		return t.ID
	}
	return t.ID + "{" + t.Tag + "}"
}

// Stack is a quantity of one resource type in transit. Stacks are values:
// helpers return new stacks and never modify the receiver.
type Stack struct {
	Type  ResourceType `json:"type"`
	Count int          `json:"count"`
}

// NewStack builds a stack and panics on a negative count.
func NewStack(id string, count int) Stack {
	return Stack{Type: ResourceType{ID: id}}.WithCount(count)
}

// IsEmpty reports whether the stack holds nothing.
func (s Stack) IsEmpty() bool {
	return s.Count == 0 || s.Type.ID == ""
}

// WithCount returns a copy of the stack holding count units.
func (s Stack) WithCount(count int) Stack {
	if count < 0 {
		panic(invariantf("stack.with_count", "negative count %d for %s", count, s.Type))
	}
	s.Count = count
	return s
}

// Shrink returns a copy of the stack reduced by n units.
func (s Stack) Shrink(n int) Stack {
	return s.WithCount(s.Count - n)
}

// Split returns up to n units as taken and what is left as rest.
func (s Stack) Split(n int) (taken, rest Stack) {
	n = min(max(n, 0), s.Count)
	return s.WithCount(n), s.Shrink(n)
}

// String renders the stack as count x type.
func (s Stack) String() string {
	return fmt.Sprintf("%dx%s", s.Count, s.Type)
}

// Equality decides whether two stacks are the same resource.
type Equality func(a, b Stack) bool

// SameType compares identity and tag, ignoring the count.
func SameType(a, b Stack) bool {
	return a.Type == b.Type
}

// Mode selects whether an operation commits or only predicts its effects.
type Mode uint8

const (
	// Execute commits transfers and counters.
	Execute Mode = iota
	// Simulate predicts the outcome without committing anything.
	Simulate
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Simulate {
		return "simulate"
	}
	return "execute"
}

// Facing is one of the six sides of a network node.
type Facing uint8

const (
	Down Facing = iota
	Up
	North
	South
	West
	East
)

var facingNames = [...]string{"down", "up", "north", "south", "west", "east"}

// String returns the lowercase facing name.
func (f Facing) String() string {
	if int(f) < len(facingNames) {
		return facingNames[f]
	}
	return fmt.Sprintf("facing(%d)", uint8(f))
}

// Opposite returns the facing on the other side of a shared face.
func (f Facing) Opposite() Facing {
	return f ^ 1
}

// ParseFacing converts a facing name into a Facing.
func ParseFacing(name string) (Facing, error) {
	for i, n := range facingNames {
		if n == name {
			return Facing(i), nil
		}
	}
	return 0, fmt.Errorf("unknown facing %q", name)
}

// Position is a node coordinate.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// Offset returns the neighbouring position in direction f.
func (p Position) Offset(f Facing) Position {
	switch f {
	case Down:
		p.Y--
	case Up:
		p.Y++
	case North:
		p.Z--
	case South:
		p.Z++
	case West:
		p.X--
	case East:
		p.X++
	}
	return p
}

// String renders the position as x,y,z.
func (p Position) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// FacingKey identifies one face of one node. It is the fairness identity of
// a sink.
type FacingKey struct {
	Pos    Position `json:"pos"`
	Facing Facing   `json:"facing"`
}

// String renders the key as x,y,z/facing.
func (k FacingKey) String() string {
	return k.Pos.String() + "/" + k.Facing.String()
}
