package treewalker

// Phase records where the walker's cursor sits relative to the node the
// walk started from.
type Phase uint

const (
	// Initial is the phase before the first step.
	Initial Phase = iota
	// Ancestor means the cursor is on an ancestor of the start node.
	Ancestor
	// Descendant means the cursor is inside the start node's subtree.
	Descendant
	// Other means the cursor is on a node unrelated to the start node.
	Other
)

func (p Phase) String() string {
	switch p {
	case Initial:
		return "initial"
	case Ancestor:
		return "ancestor"
	case Descendant:
		return "descendant"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Direction is the order a walker moves in.
type Direction uint

const (
	// Forward is pre-order.
	Forward Direction = iota
	// Backward is reverse pre-order.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ParseDirection maps "forward"/"backward" (or "f"/"b") to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "forward", "f", "next":
		return Forward, true
	case "backward", "b", "previous", "prev":
		return Backward, true
	}
	return Forward, false
}
