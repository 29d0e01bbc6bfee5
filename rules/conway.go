package rules

/*
ApplyConwayRules applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

	alive, neighbors < 2      -> dies (underpopulation)
	alive, neighbors in {2,3} -> survives
	alive, neighbors > 3      -> dies (overpopulation)
	dead,  neighbors == 3     -> born
	dead,  otherwise          -> stays dead
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}
