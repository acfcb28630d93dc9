package block

// Side грань вокселя
type Side uint8

const (
	SideBottom Side = iota
	SideTop
	SideNorth
	SideSouth
	SideEast
	SideWest
)

// Sides все грани в порядке объявления
var Sides = [...]Side{SideBottom, SideTop, SideNorth, SideSouth, SideEast, SideWest}

// String возвращает имя грани
func (s Side) String() string {
	switch s {
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	case SideNorth:
		return "north"
	case SideSouth:
		return "south"
	case SideEast:
		return "east"
	case SideWest:
		return "west"
	default:
		return "unknown"
	}
}

// Translation возвращает смещение к соседу за гранью
func (s Side) Translation() (dx, dy, dz int) {
	switch s {
	case SideBottom:
		return 0, -1, 0
	case SideTop:
		return 0, 1, 0
	case SideNorth:
		return 0, 0, -1
	case SideSouth:
		return 0, 0, 1
	case SideEast:
		return 1, 0, 0
	case SideWest:
		return -1, 0, 0
	}
	return 0, 0, 0
}

// Opposite возвращает противоположную грань
func (s Side) Opposite() Side {
	switch s {
	case SideBottom:
		return SideTop
	case SideTop:
		return SideBottom
	case SideNorth:
		return SideSouth
	case SideSouth:
		return SideNorth
	case SideEast:
		return SideWest
	default:
		return SideEast
	}
}

// ParseSide ищет грань по имени
func ParseSide(name string) (Side, bool) {
	for _, s := range Sides {
		if s.String() == name {
			return s, true
		}
	}
	return SideBottom, false
}
