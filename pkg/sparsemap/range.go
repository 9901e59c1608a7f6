package sparsemap

// ltIntersecting reports whether ab intersects cd and ab starts before cd.
func ltIntersecting(abStart, abEnd, cdStart, cdEnd int) bool {
	return abStart < cdStart && cdStart < abEnd
}

// gteIntersecting reports whether ab intersects cd and ab starts at or
// after cd.
func gteIntersecting(abStart, abEnd, cdStart, cdEnd int) bool {
	return abStart < cdEnd && cdStart <= abStart
}
