// File: game/color.go
package game

import "sort"

// Color is one of the four fixed seats.
type Color string

const (
	Blue   Color = "blue"
	Green  Color = "green"
	Red    Color = "red"
	Yellow Color = "yellow"
)

// AssignmentOrder is the order in which free seats are handed out.
var AssignmentOrder = [...]Color{Blue, Green, Red, Yellow}

// TurnOrder is the canonical order of play around the board.
var TurnOrder = [...]Color{Blue, Red, Green, Yellow}

// Valid reports whether c is a palette color.
func (c Color) Valid() bool {
	return turnIndex(c) >= 0
}

func turnIndex(c Color) int {
	for i, tc := range TurnOrder {
		if tc == c {
			return i
		}
	}
	return -1
}

// OppositeColor returns the seat diametrically across the board.
// Unknown colors map to green.
func OppositeColor(c Color) Color {
	switch c {
	case Blue:
		return Green
	case Green:
		return Blue
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Green
}

// SortByTurnOrder sorts colors in place by canonical turn order.
func SortByTurnOrder(colors []Color) {
	sort.SliceStable(colors, func(i, j int) bool {
		return turnIndex(colors[i]) < turnIndex(colors[j])
	})
}

// NextColor returns the color after current in order, wrapping around.
// A current color that is not in order yields the first entry.
func NextColor(order []Color, current Color) Color {
	if len(order) == 0 {
		return ""
	}
	idx := -1
	for i, c := range order {
		if c == current {
			idx = i
			break
		}
	}
	return order[(idx+1)%len(order)]
}
