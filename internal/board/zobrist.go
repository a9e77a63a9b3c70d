package board

// Zobrist keys for position hashing, drawn from a fixed-seed generator so
// hashes are stable across runs.
var (
	zobristPiece      [BlackKing + 1][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	initZobrist()
}

// prng is xorshift64*.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for pc := WhitePawn; pc <= BlackKing; pc++ {
		for sq := Square(0); sq < NoSquare; sq++ {
			zobristPiece[pc][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist hash of the placement, side to move, castling
// rights and en passant file. The last move does not contribute.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq, pc := range p.Board {
		if pc != NoPiece && pc <= BlackKing {
			h ^= zobristPiece[pc][sq]
		}
	}
	if p.EnPassant.IsValid() {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.Castling&0xF]
	if p.Turn == Black {
		h ^= zobristSideToMove
	}
	return h
}
