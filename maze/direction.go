package maze

import "fmt"

// Direction is one of the four grid directions.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var (
	// Directions lists every direction in scan order. Generators and the
	// weld phase rely on this order for reproducible output.
	Directions = [4]Direction{North, East, South, West}

	// UpLeft lists the directions whose walls a cell stores itself.
	UpLeft = [2]Direction{North, West}
)

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the x and y offset of one step in d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		panic(fmt.Sprintf("maze: invalid direction %d", int(d)))
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
