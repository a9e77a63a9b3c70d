// Package repl implements the interactive command line of the explorer.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/chzyer/readline"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/engine"
	"github.com/hailam/tensorchess/internal/scenario"
	"github.com/hailam/tensorchess/internal/session"
	"github.com/hailam/tensorchess/internal/snapshot"
	"github.com/hailam/tensorchess/internal/storage"
)

// SettingsStore persists display preferences.
type SettingsStore interface {
	LoadSettings() (*storage.Settings, error)
	SaveSettings(*storage.Settings) error
}

// REPL reads commands and applies them to one session.
type REPL struct {
	session  *session.Session
	store    SettingsStore
	prefs    *storage.Settings
	analyzer *engine.Analyzer
	out      io.Writer
}

// New creates a REPL over sess writing to out. store may be nil.
func New(sess *session.Session, store SettingsStore, out io.Writer) *REPL {
	prefs := storage.DefaultSettings()
	if store != nil {
		loaded, err := store.LoadSettings()
		if err != nil {
			log.WithError(err).Warn("load settings")
		} else {
			prefs = loaded
		}
	}
	return &REPL{
		session:  sess,
		store:    store,
		prefs:    prefs,
		analyzer: engine.NewAnalyzer(5),
		out:      out,
	}
}

// Prompt returns the prompt for the current position.
func (r *REPL) Prompt() string {
	return fmt.Sprintf("tensorchess [%s]> ", r.session.Position().Turn)
}

// Run reads lines until EOF or quit. historyFile may be empty.
func (r *REPL) Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.Prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(r.out, "Type 'help' for commands")
	for {
		rl.SetPrompt(r.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return err
		}
		if quit := r.Execute(line); quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the REPL should exit.
func (r *REPL) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		r.handleHelp()
	case "scenarios":
		r.handleScenarios()
	case "load":
		err = r.handleLoad(args)
	case "fen":
		err = r.handleFEN(args)
	case "d":
		fmt.Fprint(r.out, r.session.Position().Diagram(r.prefs.Flipped))
	case "legal":
		err = r.handleLegal(args)
	case "move", "m":
		err = r.handleMove(args)
	case "preview":
		err = r.handlePreview(args)
	case "auto":
		err = r.handleAuto()
	case "autoreply":
		err = r.handleAutoReply(args)
	case "undo":
		err = r.handleUndo()
	case "eval":
		err = r.handleEval(args)
	case "analyze":
		err = r.handleAnalyze()
	case "attacks":
		err = r.handleAttacks(args)
	case "heat":
		err = r.handleHeat(args)
	case "status":
		r.handleStatus()
	case "missing":
		r.handleMissing()
	case "perft":
		err = r.handlePerft(args)
	case "flip":
		r.prefs.Flipped = !r.prefs.Flipped
		err = r.saveSettings()
		fmt.Fprint(r.out, r.session.Position().Diagram(r.prefs.Flipped))
	case "settings":
		err = r.handleSettings(args)
	case "snapshot":
		err = r.handleSnapshot(args)
	case "log":
		r.handleLog()
	case "quit", "exit":
		return true
	default:
		err = fmt.Errorf("unknown command %q (type help)", cmd)
	}
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
	return false
}

const helpText = `Commands:
  scenarios                 list the built-in positions
  load <id>                 load a scenario
  fen [<fen>]               print the position, or load one
  d                         draw the board
  legal <sq>                list the legal moves from a square
  move <from><to>[q|r|b|n]  play a move (also: m)
  preview <from><to>        show a move's result without playing it
  auto                      play or cycle the automatic reply
  autoreply on|off          reply automatically after each move
  undo                      take back the last move
  eval [w|b]                evaluation breakdown
  analyze                   ranked replies for the side to move
  attacks [w|b]             attack counts per square
  heat [w|b]                king danger map
  status                    check, checkmate or stalemate
  missing                   captured pieces
  perft <depth> [divide]    count leaf nodes
  flip                      turn the board around
  settings [<key> <value>]  show or change display settings
  snapshot <file.png>       render the board to an image
  log                       the analysis log
  quit
`

func (r *REPL) handleHelp() {
	fmt.Fprint(r.out, helpText)
}

func (r *REPL) handleScenarios() {
	for _, sc := range scenario.All() {
		fmt.Fprintf(r.out, "%-12s %s\n", sc.ID, sc.Name)
	}
}

func (r *REPL) handleLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <id>")
	}
	if err := r.session.Load(args[0]); err != nil {
		return err
	}
	fmt.Fprint(r.out, r.session.Position().Diagram(r.prefs.Flipped))
	return nil
}

func (r *REPL) handleFEN(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, r.session.Position().FEN())
		return nil
	}
	if err := r.session.LoadFEN(strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Fprintln(r.out, r.session.Position().FEN())
	return nil
}

func parseSquareArg(args []string) (board.Square, error) {
	if len(args) != 1 {
		return board.NoSquare, errors.New("expected one square")
	}
	return board.ParseSquare(args[0])
}

// parseColorArg reads an optional color argument, defaulting to def.
func parseColorArg(args []string, def board.Color) (board.Color, error) {
	if len(args) == 0 {
		return def, nil
	}
	return board.ParseColor(args[0])
}

func (r *REPL) handleLegal(args []string) error {
	sq, err := parseSquareArg(args)
	if err != nil {
		return err
	}
	moves := r.session.Legal(sq)
	if len(moves) == 0 {
		fmt.Fprintf(r.out, "no legal moves from %s\n", sq)
		return nil
	}
	for _, m := range moves {
		fmt.Fprintf(r.out, "%-6s %s\n", m, m.Describe())
	}
	return nil
}

func parseMoveArg(args []string) (board.Square, board.Square, board.PieceType, error) {
	if len(args) != 1 {
		return board.NoSquare, board.NoSquare, board.NoPieceType, errors.New("expected a move such as e2e4")
	}
	return board.ParseCoordinates(args[0])
}

func (r *REPL) handleMove(args []string) error {
	from, to, promo, err := parseMoveArg(args)
	if err != nil {
		return err
	}
	m, err := r.session.Move(from, to, promo)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s: %s\n", m.Piece.Color().Name(), m.Describe())

	// An automatic reply, if one was played, is the position's last move.
	if pos := r.session.Position(); pos.LastMove != nil && *pos.LastMove != m {
		fmt.Fprintf(r.out, "%s: %s\n", pos.LastMove.Piece.Color().Name(), pos.LastMove.Describe())
	}
	r.printStatus()
	return nil
}

func (r *REPL) handlePreview(args []string) error {
	from, to, promo, err := parseMoveArg(args)
	if err != nil {
		return err
	}
	next, err := r.session.Preview(from, to, promo)
	if err != nil {
		return err
	}
	mover := next.Turn.Other()
	fmt.Fprintln(r.out, next.FEN())
	fmt.Fprintf(r.out, "%s: %s, score %.2f, %s\n",
		mover.Name(), next.LastMove.Describe(), engine.Evaluate(next, mover), board.GameStatus(next))
	return nil
}

func (r *REPL) handleAuto() error {
	c, err := r.session.AutoMove()
	if err != nil {
		return err
	}
	cands, next := r.session.PendingReplies()
	shown := next
	if shown == 0 {
		shown = len(cands)
	}
	fmt.Fprintf(r.out, "%s: %s, score %.2f [%d/%d]\n",
		c.Move.Piece.Color().Name(), c.Move.Describe(), c.Score, shown, len(cands))
	r.printStatus()
	return nil
}

func (r *REPL) handleAutoReply(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "autoreply %s\n", onOff(r.session.AutoReply()))
		return nil
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	r.session.SetAutoReply(on)
	fmt.Fprintf(r.out, "autoreply %s\n", onOff(on))
	return nil
}

func (r *REPL) handleUndo() error {
	pos, err := r.session.Undo()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, pos.FEN())
	return nil
}

func (r *REPL) handleEval(args []string) error {
	pos := r.session.Position()
	color, err := parseColorArg(args, pos.Turn)
	if err != nil {
		return err
	}
	ev := r.session.Evaluate(color)
	fmt.Fprintf(r.out, "%-9s %9s %9s\n", "", color.Name(), color.Other().Name())
	fmt.Fprintf(r.out, "%-9s %9.2f %9.2f\n", "material", ev.Own.Material, ev.Opponent.Material)
	fmt.Fprintf(r.out, "%-9s %9.2f %9.2f\n", "mobility", ev.Own.Mobility, ev.Opponent.Mobility)
	fmt.Fprintf(r.out, "%-9s %9.2f %9.2f\n", "threat", ev.Own.Threat, ev.Opponent.Threat)
	fmt.Fprintf(r.out, "score %.2f\n", ev.Score)
	return nil
}

func (r *REPL) handleAnalyze() error {
	a, err := r.analyzer.Analyze(r.session.Position())
	if err != nil {
		return err
	}
	if len(a.Candidates) == 0 {
		fmt.Fprintf(r.out, "no legal moves (%s)\n", a.Status)
		return nil
	}
	for i, c := range a.Candidates {
		mate := ""
		if c.Mates {
			mate = " #"
		}
		fmt.Fprintf(r.out, "%d. %-6s %8.2f%s  %s\n", i+1, c.Move, c.Score, mate, c.Description)
	}
	s := a.Summary
	fmt.Fprintf(r.out, "%d moves, mean %.2f, median %.2f, p80 %.2f, stddev %.2f\n",
		s.Count, s.Mean, s.Median, s.P80, s.StdDev)
	return nil
}

func (r *REPL) handleAttacks(args []string) error {
	pos := r.session.Position()
	color, err := parseColorArg(args, pos.Turn)
	if err != nil {
		return err
	}
	counts := board.AttackMap(&pos.Board, color)
	r.printGrid(func(sq board.Square) string {
		if counts[sq] == 0 {
			return "."
		}
		return strconv.Itoa(counts[sq])
	}, 2)
	return nil
}

func (r *REPL) handleHeat(args []string) error {
	pos := r.session.Position()
	color, err := parseColorArg(args, pos.Turn)
	if err != nil {
		return err
	}
	heat := r.session.Heat(color)
	scale := storage.ClampHeatBaseScale(r.prefs.HeatBaseScale)
	r.printGrid(func(sq board.Square) string {
		v := heat[sq] * scale
		if v == 0 {
			return "."
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	}, 5)
	return nil
}

// printGrid draws one cell per square in display orientation.
func (r *REPL) printGrid(cell func(board.Square) string, width int) {
	for i := 0; i < 8; i++ {
		row := i
		if r.prefs.Flipped {
			row = 7 - i
		}
		fmt.Fprintf(r.out, "%d ", 8-row)
		for j := 0; j < 8; j++ {
			file := j
			if r.prefs.Flipped {
				file = 7 - j
			}
			fmt.Fprintf(r.out, " %*s", width, cell(board.NewSquare(file, row)))
		}
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) printStatus() {
	pos := r.session.Position()
	switch board.GameStatus(pos) {
	case board.Checkmate:
		fmt.Fprintf(r.out, "checkmate, %s wins\n", pos.Turn.Other().Name())
	case board.Stalemate:
		fmt.Fprintln(r.out, "stalemate")
	case board.Check:
		fmt.Fprintf(r.out, "%s is in check\n", pos.Turn.Name())
	}
}

func (r *REPL) handleStatus() {
	pos := r.session.Position()
	fmt.Fprintf(r.out, "%s to move: %s\n", pos.Turn.Name(), board.GameStatus(pos))
}

func (r *REPL) handleMissing() {
	missing := r.session.Missing()
	var parts []string
	for _, c := range []board.Color{board.White, board.Black} {
		for _, pt := range board.PieceTypes {
			if n := missing[c][pt]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s×%d", board.NewPiece(pt, c).Tag(), n))
			}
		}
	}
	if len(parts) == 0 {
		fmt.Fprintln(r.out, "nothing captured")
		return
	}
	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

func (r *REPL) handlePerft(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: perft <depth> [divide]")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("invalid depth %q", args[0])
	}
	pos := r.session.Position()

	if len(args) > 1 && args[1] == "divide" {
		div := board.Divide(pos, depth)
		moves := make([]string, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		var total uint64
		for _, m := range moves {
			fmt.Fprintf(r.out, "%s: %d\n", m, div[m])
			total += div[m]
		}
		fmt.Fprintf(r.out, "Nodes: %d\n", total)
		return nil
	}

	start := time.Now()
	nodes := board.Perft(pos, depth)
	elapsed := time.Since(start)
	fmt.Fprintf(r.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(r.out, "Time: %v\n", elapsed.Round(time.Millisecond))
	return nil
}

// settingKeys maps command names to the display settings they toggle.
var settingKeys = map[string]func(*storage.Settings) *bool{
	"flipped": func(s *storage.Settings) *bool { return &s.Flipped },
	"heat":    func(s *storage.Settings) *bool { return &s.ShowHeat },
	"vectors": func(s *storage.Settings) *bool { return &s.ShowVectors },
	"attacks": func(s *storage.Settings) *bool { return &s.ShowAttackLayer },
	"support": func(s *storage.Settings) *bool { return &s.ShowSupportLayer },
	"2d":      func(s *storage.Settings) *bool { return &s.Show2DBoard },
	"3d":      func(s *storage.Settings) *bool { return &s.Show3DBoard },
}

func (r *REPL) handleSettings(args []string) error {
	switch len(args) {
	case 0:
		r.printSettings()
		return nil
	case 2:
	default:
		return errors.New("usage: settings [<key> <value>]")
	}

	key, value := args[0], args[1]
	if key == "heatscale" {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid heat scale %q", value)
		}
		r.prefs.HeatBaseScale = storage.ClampHeatBaseScale(v)
	} else {
		field, ok := settingKeys[key]
		if !ok {
			return fmt.Errorf("unknown setting %q", key)
		}
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		*field(r.prefs) = on
	}
	if err := r.saveSettings(); err != nil {
		return err
	}
	r.printSettings()
	return nil
}

func (r *REPL) printSettings() {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.out, "%-9s %s\n", k, onOff(*settingKeys[k](r.prefs)))
	}
	fmt.Fprintf(r.out, "%-9s %.2f\n", "heatscale", r.prefs.HeatBaseScale)
}

func (r *REPL) saveSettings() error {
	r.prefs.Normalize()
	if r.store == nil {
		return nil
	}
	return r.store.SaveSettings(r.prefs)
}

func (r *REPL) handleSnapshot(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: snapshot <file.png>")
	}
	pos := r.session.Position()
	opts := snapshot.Options{Flipped: r.prefs.Flipped, HeatBaseScale: r.prefs.HeatBaseScale}
	if r.prefs.ShowHeat {
		heat := r.session.Heat(pos.Turn)
		opts.Heat = &heat
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := snapshot.WritePNG(f, pos, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s\n", args[0])
	return nil
}

func (r *REPL) handleLog() {
	for _, e := range r.session.Log() {
		fmt.Fprintf(r.out, "%s %-5s %s\n", e.Timestamp.Format("15:04:05"), e.Actor, e.Description)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
