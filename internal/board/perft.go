package board

// underPromotions are the alternatives to the default queen promotion.
var underPromotions = [3]PieceType{Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Every promotion choice is counted, not just the default queen, so the
// results match published perft tables.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var nodes uint64
	for _, m := range AllLegalMoves(p) {
		variants := []Move{m}
		if m.IsPromotion() {
			for _, pt := range underPromotions {
				variants = append(variants, m.WithPromotion(pt))
			}
		}
		if depth == 1 {
			nodes += uint64(len(variants))
			continue
		}
		for _, v := range variants {
			nodes += Perft(ApplyMove(p, v), depth-1)
		}
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by coordinate
// notation. Useful for locating generation bugs against a reference engine.
func Divide(p *Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range AllLegalMoves(p) {
		variants := []Move{m}
		if m.IsPromotion() {
			for _, pt := range underPromotions {
				variants = append(variants, m.WithPromotion(pt))
			}
		}
		for _, v := range variants {
			out[v.String()] = Perft(ApplyMove(p, v), depth-1)
		}
	}
	return out
}
