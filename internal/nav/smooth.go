package nav

// SmoothPath removes unnecessary intermediate waypoints: whenever waypoint
// N+1 is directly visible from the last kept waypoint, the one between them
// is dropped. Runs up to three passes, stopping early once a pass changes
// nothing. The input slice is not modified.
func (g *Grid) SmoothPath(waypoints []Cell) []Cell {
	if len(waypoints) <= 2 {
		out := make([]Cell, len(waypoints))
		copy(out, waypoints)
		return out
	}

	path := make([]Cell, len(waypoints))
	copy(path, waypoints)

	for range 3 {
		changed := false
		smoothed := make([]Cell, 0, len(path))
		smoothed = append(smoothed, path[0])

		for i := 1; i < len(path)-1; i++ {
			prev := smoothed[len(smoothed)-1]
			next := path[i+1]
			if g.LineOfSight(prev, next) {
				changed = true
				continue
			}
			smoothed = append(smoothed, path[i])
		}
		smoothed = append(smoothed, path[len(path)-1])
		path = smoothed

		if !changed {
			break
		}
	}
	return path
}
