package cli

import (
	"fmt"

	"github.com/amterp/ra"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
)

func registerOrder(parent *ra.Cmd, ctx *CommandContext) {
	up := ra.NewCmd("up")
	up.SetDescription("Move a card one position up")
	ctx.UpCard, _ = ra.NewString("card").
		SetUsage("Card ID, position or patient name").
		SetCompletionFunc(completeCards).
		Register(up)
	ctx.UpUsed, _ = parent.RegisterCmd(up)

	down := ra.NewCmd("down")
	down.SetDescription("Move a card one position down")
	ctx.DownCard, _ = ra.NewString("card").
		SetUsage("Card ID, position or patient name").
		SetCompletionFunc(completeCards).
		Register(down)
	ctx.DownUsed, _ = parent.RegisterCmd(down)

	move := ra.NewCmd("move")
	move.SetDescription("Move the card at one position to another, shifting the cards between")
	ctx.MoveFrom, _ = ra.NewInt("from").
		SetUsage("Current position (1-based)").
		Register(move)
	ctx.MoveTo, _ = ra.NewInt("to").
		SetUsage("New position (1-based)").
		Register(move)
	ctx.MoveUsed, _ = parent.RegisterCmd(move)

	collapse := ra.NewCmd("collapse")
	collapse.SetDescription("Collapse every card")
	ctx.CollapseUsed, _ = parent.RegisterCmd(collapse)

	expand := ra.NewCmd("expand")
	expand.SetDescription("Expand every card")
	ctx.ExpandUsed, _ = parent.RegisterCmd(expand)
}

func runUp(ref string) {
	app := mustApp(false)
	defer app.Close()

	card, index, err := app.CardResolver.Resolve(ref)
	if err != nil {
		Fatal(err)
	}
	if index == 0 {
		PrintInfo("%s is already first", cardLabel(card, index))
		return
	}
	if err := app.BoardService.MoveCardUp(card.ID); err != nil {
		Fatal(err)
	}
	PrintSuccess("Moved %s up", cardLabel(card, index-1))
}

func runDown(ref string) {
	app := mustApp(false)
	defer app.Close()

	card, index, err := app.CardResolver.Resolve(ref)
	if err != nil {
		Fatal(err)
	}
	if index == len(app.BoardService.Cards())-1 {
		PrintInfo("%s is already last", cardLabel(card, index))
		return
	}
	if err := app.BoardService.MoveCardDown(card.ID); err != nil {
		Fatal(err)
	}
	PrintSuccess("Moved %s down", cardLabel(card, index+1))
}

func runMove(from, to int) {
	app := mustApp(false)
	defer app.Close()

	cards := app.BoardService.Cards()
	for _, pos := range []int{from, to} {
		if pos < 1 || pos > len(cards) {
			Fatal(kanerr.InvalidField("position", fmt.Sprintf("%d is outside 1..%d", pos, len(cards))))
		}
	}
	if from == to {
		PrintInfo("Nothing to move")
		return
	}

	card := cards[from-1]
	if err := app.BoardService.ReorderByDrag(from-1, to-1); err != nil {
		Fatal(err)
	}
	PrintSuccess("Moved %s", cardLabel(card, to-1))
}

func runCollapse(collapsed bool) {
	app := mustApp(false)
	defer app.Close()

	var err error
	if collapsed {
		err = app.BoardService.CollapseAll()
	} else {
		err = app.BoardService.ExpandAll()
	}
	if err != nil {
		Fatal(err)
	}

	verb := "Expanded"
	if collapsed {
		verb = "Collapsed"
	}
	PrintSuccess("%s %d card(s)", verb, len(app.BoardService.Cards()))
}
