package game

// Position identifies a seat at the table. Play proceeds clockwise
// North -> East -> South -> West.
type Position int

const (
	North Position = iota
	East
	South
	West
)

func (p Position) String() string {
	return [...]string{"north", "east", "south", "west"}[p]
}

// AllPositions returns the four positions in clockwise order starting at North
func AllPositions() []Position {
	return []Position{North, East, South, West}
}

// Next returns the position to the left (clockwise)
func (p Position) Next() Position {
	return Position((int(p) + 1) % 4)
}

// Partner returns the fixed opposite-seat teammate (N<->S, E<->W)
func (p Position) Partner() Position {
	return Position((int(p) + 2) % 4)
}

// Team identifies one of the two fixed partnerships
type Team int

const (
	NorthSouth Team = iota
	EastWest
)

func (t Team) String() string {
	if t == NorthSouth {
		return "north-south"
	}
	return "east-west"
}

// Other returns the opposing team
func (t Team) Other() Team {
	return Team(1 - int(t))
}

// TeamOf returns the partnership a position belongs to
func TeamOf(p Position) Team {
	if p == North || p == South {
		return NorthSouth
	}
	return EastWest
}

// ParsePosition parses a position name ("north", "east", ...)
func ParsePosition(name string) (Position, bool) {
	switch name {
	case "north":
		return North, true
	case "east":
		return East, true
	case "south":
		return South, true
	case "west":
		return West, true
	}
	return North, false
}
