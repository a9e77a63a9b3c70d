// Package snapshot renders positions to PNG images: the board squares, an
// optional heat tint, the last move, a check marker and the pieces.
package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/tensorchess/internal/board"
)

// DefaultSquareSize is the square edge in pixels used when Options leaves it unset.
const DefaultSquareSize = 48

// Theme holds the colors used for rendering.
type Theme struct {
	LightSquare color.NRGBA
	DarkSquare  color.NRGBA
	LastMove    color.NRGBA
	Check       color.NRGBA
	Heat        color.NRGBA
	WhitePiece  color.NRGBA
	BlackPiece  color.NRGBA
}

// DefaultTheme returns the tan and brown board theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare: color.NRGBA{240, 217, 181, 255},
		DarkSquare:  color.NRGBA{181, 136, 99, 255},
		LastMove:    color.NRGBA{180, 190, 100, 110},
		Check:       color.NRGBA{255, 100, 100, 180},
		Heat:        color.NRGBA{230, 40, 30, 255},
		WhitePiece:  color.NRGBA{250, 250, 245, 255},
		BlackPiece:  color.NRGBA{35, 35, 40, 255},
	}
}

// Options controls a render.
type Options struct {
	SquareSize int
	Flipped    bool // black at the bottom
	// Heat tints each square by its value in [0,1]. Nil disables the overlay.
	Heat          *[64]float64
	HeatBaseScale float64
	Theme         *Theme
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return DefaultSquareSize
	}
	return o.SquareSize
}

func (o Options) heatScale() float64 {
	if o.HeatBaseScale <= 0 {
		return 1
	}
	return o.HeatBaseScale
}

func (o Options) theme() Theme {
	if o.Theme == nil {
		return DefaultTheme()
	}
	return *o.Theme
}

// SquareRect returns the pixel rectangle of sq in a render with opts.
func SquareRect(sq board.Square, opts Options) image.Rectangle {
	size := opts.squareSize()
	col, row := sq.File(), sq.Row()
	if opts.Flipped {
		col, row = 7-col, 7-row
	}
	return image.Rect(col*size, row*size, (col+1)*size, (row+1)*size)
}

// Render draws p into a new image.
func Render(p *board.Position, opts Options) *image.RGBA {
	size := opts.squareSize()
	theme := opts.theme()
	img := image.NewRGBA(image.Rect(0, 0, 8*size, 8*size))

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		c := theme.LightSquare
		if (sq.File()+sq.Row())%2 == 1 {
			c = theme.DarkSquare
		}
		draw.Draw(img, SquareRect(sq, opts), image.NewUniform(c), image.Point{}, draw.Src)
	}

	if opts.Heat != nil {
		scale := opts.heatScale()
		for sq := board.Square(0); sq < board.NoSquare; sq++ {
			a := opts.Heat[sq] * scale * 0.6
			if a <= 0 {
				continue
			}
			if a > 0.85 {
				a = 0.85
			}
			tint := theme.Heat
			tint.A = uint8(a * 255)
			fill(img, SquareRect(sq, opts), tint)
		}
	}

	if lm := p.LastMove; lm != nil && lm.From.IsValid() && lm.To.IsValid() {
		fill(img, SquareRect(lm.From, opts), theme.LastMove)
		fill(img, SquareRect(lm.To, opts), theme.LastMove)
	}

	if board.IsKingInCheck(&p.Board, p.Turn) {
		fill(img, SquareRect(board.KingSquare(&p.Board, p.Turn), opts), theme.Check)
	}

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		pc := p.Board[sq]
		if pc == board.NoPiece {
			continue
		}
		drawPiece(img, SquareRect(sq, opts), pc, theme)
	}
	return img
}

// WritePNG renders p and encodes it as PNG to w.
func WritePNG(w io.Writer, p *board.Position, opts Options) error {
	if err := png.Encode(w, Render(p, opts)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func fill(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawPiece(img *image.RGBA, r image.Rectangle, pc board.Piece, theme Theme) {
	body, ink := theme.WhitePiece, theme.BlackPiece
	if pc.Color() == board.Black {
		body, ink = ink, body
	}
	if disc := pieceDisc(r.Dx(), body, ink); disc != nil {
		draw.Draw(img, r, disc, image.Point{}, draw.Over)
	}

	letter := string(pc.Type().Letter())
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(letter).Ceil()
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()+basicfont.Face7x13.Ascent-basicfont.Face7x13.Descent)/2
	d.Dot = fixed.P(x, y)
	d.DrawString(letter)
}

type discKey struct {
	size      int
	body, ink color.NRGBA
}

var discCache sync.Map // discKey -> *image.RGBA

const discSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">` +
	`<circle cx="50" cy="50" r="36" fill="%s" stroke="%s" stroke-width="5"/></svg>`

// pieceDisc rasterizes the round piece token for one square size and color pair.
func pieceDisc(size int, body, ink color.NRGBA) *image.RGBA {
	key := discKey{size, body, ink}
	if v, ok := discCache.Load(key); ok {
		return v.(*image.RGBA)
	}

	src := fmt.Sprintf(discSVG, hex(body), hex(ink))
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(src)))
	if err != nil {
		return nil
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	v, _ := discCache.LoadOrStore(key, rgba)
	return v.(*image.RGBA)
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
