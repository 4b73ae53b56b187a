package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"sixcardgolf/internal/config"
	"sixcardgolf/pkg/deck"
	"sixcardgolf/pkg/golf"
	"sixcardgolf/pkg/peer"
	"sixcardgolf/pkg/tracker"
)

const faceDown = "??"

type ui struct {
	p   *peer.Peer
	cfg config.Config
}

func newUI(p *peer.Peer, cfg config.Config) *ui {
	return &ui{p: p, cfg: cfg}
}

func (u *ui) run() {
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Six-Card ", pterm.FgLightGreen.ToStyle()),
		putils.LettersFromStringWithStyle("Golf", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	if _, err := u.p.Register(); err != nil {
		pterm.Error.Printfln("could not register %s: %v", u.p.Username(), err)
		return
	}
	pterm.Success.Printfln("registered as %s", pterm.LightCyan(u.p.Username()))

	defer func() {
		if _, err := u.p.DeRegister(); err != nil {
			pterm.Warning.Printfln("could not de-register: %v", err)
		}
	}()

	for {
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("What would you like to do?").
			WithOptions([]string{"List players", "List games", "Start a game", "Wait for a game", "Quit"}).
			Show()

		switch choice {
		case "List players":
			u.listPlayers()
		case "List games":
			u.listGames()
		case "Start a game":
			u.startGame()
		case "Wait for a game":
			u.waitForGame()
		case "Quit":
			return
		}
	}
}

func (u *ui) listPlayers() {
	players, err := u.p.QueryPlayers()
	if err != nil {
		pterm.Error.Printfln("could not list players: %v", err)
		return
	}

	rows := [][]string{{"Player", "Address", "State"}}
	for _, pl := range players {
		rows = append(rows, []string{pl.Username, pl.GameAddr(), pl.State})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func (u *ui) listGames() {
	games, err := u.p.QueryGames()
	if err != nil {
		pterm.Error.Printfln("could not list games: %v", err)
		return
	}

	if len(games) == 0 {
		pterm.Info.Println("no games in progress")
		return
	}

	rows := [][]string{{"Game", "Dealer", "Players", "Holes"}}
	for _, g := range games {
		names := make([]string, len(g.Players))
		for i, pl := range g.Players {
			names[i] = pl.Username
		}

		rows = append(rows, []string{g.ID, g.Dealer.Username, strings.Join(names, ", "), strconv.Itoa(g.Holes)})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func (u *ui) startGame() {
	opponents, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("How many opponents?").
		WithOptions([]string{"1", "2", "3"}).
		Show()
	n, _ := strconv.Atoi(opponents)

	holesInput, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText(fmt.Sprintf("How many holes? (%d-%d)", tracker.MinHoles, tracker.MaxHoles)).
		WithDefaultValue(strconv.Itoa(tracker.MaxHoles)).
		Show()
	holes, err := strconv.Atoi(strings.TrimSpace(holesInput))
	if err != nil {
		pterm.Error.Printfln("%q is not a number", holesInput)
		return
	}

	allowSteal, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Allow stealing?").
		WithDefaultValue(true).
		Show()

	resp, err := u.p.StartGame(n, holes, allowSteal)
	if err != nil {
		pterm.Error.Printfln("could not start a game: %v", err)
		return
	}

	names := make([]string, len(resp.Players))
	for i, pl := range resp.Players {
		names[i] = pl.Username
	}
	pterm.Success.Printfln("game on: %s", strings.Join(names, ", "))

	u.play()
}

func (u *ui) waitForGame() {
	spinner, _ := pterm.DefaultSpinner.Start("Waiting for a dealer to pick you...")
	for {
		ev := <-u.p.Events()
		if ev.Type == peer.EventGameAssigned {
			spinner.Success(ev.Message)
			u.play()
			return
		}
	}
}

// play runs the in-game loop until the game ends: take turns when
// granted, redraw on state changes
func (u *ui) play() {
	for {
		select {
		case <-u.p.Turns():
			u.takeTurn()
		case ev := <-u.p.Events():
			switch ev.Type {
			case peer.EventGameEnded:
				pterm.Success.Println(ev.Message)
				return
			case peer.EventHoleEnded:
				u.render()
				pterm.Info.Println(ev.Message)
			case peer.EventHandsDealt:
				pterm.Info.Println(ev.Message)
				u.render()
			case peer.EventGameAssigned, peer.EventStateUpdated:
				// redrawn with the next prompt
			}
		}
	}
}

func (u *ui) takeTurn() {
	u.render()
	snap := u.p.Snapshot()
	if !snap.InGame {
		return
	}

	options := []string{"Draw from the stock"}
	if snap.HasDiscardTop {
		options = append(options, fmt.Sprintf("Take the discard (%s)", snap.DiscardTop))
	}
	if snap.AllowSteal && len(stealTargets(snap)) > 0 && len(faceDownPositions(snap.Hand)) > 0 {
		options = append(options, "Steal a face-up card")
	}

	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Your turn").
		WithOptions(options).
		Show()

	switch {
	case choice == "Draw from the stock":
		card, err := u.p.DrawStock()
		if err != nil {
			pterm.Error.Printfln("could not draw: %v", err)
		} else {
			u.resolveDrawn(card)
		}
	case strings.HasPrefix(choice, "Take the discard"):
		card, err := u.p.DrawDiscard()
		if err != nil {
			pterm.Error.Printfln("could not draw: %v", err)
		} else {
			u.resolveDrawn(card)
		}
	default:
		u.steal(snap)
	}

	if err := u.p.EndTurn(); err != nil {
		pterm.Error.Printfln("could not end the turn: %v", err)
		return
	}

	u.waitOutHole()
}

// resolveDrawn places or discards the card in hand
func (u *ui) resolveDrawn(card deck.Card) {
	snap := u.p.Snapshot()

	options := make([]string, 0, golf.HandSize+1)
	positions := make([]golf.Position, 0, golf.HandSize)
	for i := range snap.Hand.Cards {
		pos := positionAt(i)
		options = append(options, fmt.Sprintf("Swap into %s (%s)", pos, cell(snap.Hand, i)))
		positions = append(positions, pos)
	}
	options = append(options, "Discard it")

	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText(fmt.Sprintf("You drew %s", pterm.LightCyan(card.String()))).
		WithOptions(options).
		Show()

	for i, option := range options[:len(positions)] {
		if choice == option {
			replaced, err := u.p.SwapDrawn(positions[i])
			if err != nil {
				pterm.Error.Printfln("could not swap: %v", err)
				return
			}

			pterm.Info.Printfln("%s went to the discard pile", replaced)
			return
		}
	}

	if err := u.p.DiscardDrawn(); err != nil {
		pterm.Error.Printfln("could not discard: %v", err)
	}
}

func (u *ui) steal(snap peer.Snapshot) {
	targets := stealTargets(snap)
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Username
	}

	name, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Steal from whom?").
		WithOptions(names).
		Show()

	var target peer.PlayerView
	for _, t := range targets {
		if t.Username == name {
			target = t
		}
	}

	stealPos, ok := u.pickPosition("Which card?", target, true)
	if !ok {
		return
	}

	offerPos, ok := u.pickPosition("Offer which face-down card?", snap.Hand, false)
	if !ok {
		return
	}

	card, ok, err := u.p.Steal(name, stealPos, offerPos)
	switch {
	case err != nil:
		pterm.Error.Printfln("could not steal: %v", err)
	case !ok:
		pterm.Warning.Println("the steal came up empty; your turn is spent")
	default:
		pterm.Success.Printfln("stole %s from %s", pterm.LightCyan(card.String()), name)
	}
}

func (u *ui) pickPosition(prompt string, view peer.PlayerView, faceUp bool) (golf.Position, bool) {
	var options []string
	var positions []golf.Position
	for i, up := range view.Faces {
		if up != faceUp {
			continue
		}

		pos := positionAt(i)
		options = append(options, fmt.Sprintf("%s (%s)", pos, cell(view, i)))
		positions = append(positions, pos)
	}

	if len(options) == 0 {
		return golf.Position{}, false
	}

	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText(prompt).
		WithOptions(options).
		Show()

	for i, option := range options {
		if choice == option {
			return positions[i], true
		}
	}

	return golf.Position{}, false
}

// waitOutHole blocks until the hole results arrive when this player's
// grid is already complete
func (u *ui) waitOutHole() {
	snap := u.p.Snapshot()
	if !snap.InGame || len(faceDownPositions(snap.Hand)) > 0 {
		return
	}

	spinner, _ := pterm.DefaultSpinner.Start("Grid complete! Waiting for the hole to finish...")
	if u.p.WaitHoleOver(u.cfg.Timeout.HoleOver.D()) {
		spinner.Success()
	} else {
		spinner.Warning("the hole results never arrived")
	}
}

func (u *ui) render() {
	snap := u.p.Snapshot()
	if !snap.InGame {
		return
	}

	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)

	var others []pterm.Panel
	for _, view := range snap.Others {
		others = append(others, pterm.Panel{
			Data: box.WithTitle(view.Username).WithTitleTopLeft().Sprint(gridString(view)),
		})
	}

	status := fmt.Sprintf("hole %d of %d | stock %d | discard %s | %s to play",
		snap.Hole, snap.Holes, snap.StockCount, discardLabel(snap), snap.CurrentPlayer)
	if len(snap.Scores) > 0 {
		status += "\nscores: " + scoreLine(snap)
	}

	mine := box.WithTitle(pterm.LightCyan(snap.Hand.Username)).WithTitleTopLeft().Sprint(gridString(snap.Hand))

	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		others,
		{{Data: pterm.Sprint(status)}},
		{{Data: mine}},
	}).Render()
}

func discardLabel(snap peer.Snapshot) string {
	if !snap.HasDiscardTop {
		return "empty"
	}

	return snap.DiscardTop.String()
}

func scoreLine(snap peer.Snapshot) string {
	parts := make([]string, 0, len(snap.Players))
	for _, name := range snap.Players {
		if score, ok := snap.Scores[name]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", name, score))
		}
	}

	return strings.Join(parts, " | ")
}

func gridString(view peer.PlayerView) string {
	var b strings.Builder
	for row := 0; row < golf.Rows; row++ {
		if row > 0 {
			b.WriteString("\n")
		}

		for col := 0; col < golf.Cols; col++ {
			if col > 0 {
				b.WriteString("  ")
			}

			b.WriteString(fmt.Sprintf("%3s", cell(view, row*golf.Cols+col)))
		}
	}

	return b.String()
}

func cell(view peer.PlayerView, i int) string {
	if i >= len(view.Faces) || !view.Faces[i] {
		return faceDown
	}

	return view.Cards[i].String()
}

func positionAt(i int) golf.Position {
	return golf.Position{Row: i / golf.Cols, Col: i % golf.Cols}
}

func stealTargets(snap peer.Snapshot) []peer.PlayerView {
	var targets []peer.PlayerView
	for _, view := range snap.Others {
		for _, up := range view.Faces {
			if up {
				targets = append(targets, view)
				break
			}
		}
	}

	return targets
}

func faceDownPositions(view peer.PlayerView) []golf.Position {
	var positions []golf.Position
	for i, up := range view.Faces {
		if !up {
			positions = append(positions, positionAt(i))
		}
	}

	return positions
}
