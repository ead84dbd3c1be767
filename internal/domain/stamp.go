package domain

// DeriveStampType computes the day's stamp from logged items: skipped when
// nothing was done, done when everything was, partial otherwise. An empty
// item list counts as skipped.
func DeriveStampType(items []WorkoutResultItem) StampType {
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	switch {
	case done == 0:
		return StampSkipped
	case done == len(items):
		return StampDone
	default:
		return StampPartial
	}
}
