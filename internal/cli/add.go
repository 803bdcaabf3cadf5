package cli

import (
	"github.com/amterp/ra"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a new card (white, blank location) at the end of the board")

	ctx.AddName, _ = ra.NewString("name").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Patient name").
		Register(cmd)

	ctx.AddPathology, _ = ra.NewString("pathology").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Pathology").
		Register(cmd)

	ctx.AddColor, _ = ra.NewString("color").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Triage colour: rosso, giallo, blu, verde, bianco (or red, yellow, blue, green, white)").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.AddLocation, _ = ra.NewString("location").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Ward code: OT1, OT2, COR, ACQ, TRI, OBI1, OBI2, OBI3").
		SetCompletionFunc(completeLocations).
		Register(cmd)

	ctx.AddMoved, _ = ra.NewString("moved").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Transfer status: R or D").
		SetCompletionFunc(completeMoved).
		Register(cmd)

	ctx.AddMovedTo, _ = ra.NewString("moved-to").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Transfer destination").
		Register(cmd)

	ctx.AddContent, _ = ra.NewString("content").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Clinical notes").
		Register(cmd)

	ctx.AddJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print the new card as JSON").
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(flags addFlags, jsonOutput bool) {
	// Validate before creating so a bad flag leaves the board untouched
	patch, err := flags.patch()
	if err != nil {
		Fatal(err)
	}

	app := mustApp(false)
	defer app.Close()

	card, err := app.BoardService.AddCard()
	if err != nil {
		Fatal(err)
	}

	if !patch.IsEmpty() {
		if err := app.BoardService.UpdateCard(card.ID, patch); err != nil {
			Fatal(err)
		}
		card = patch.Apply(card)
	}

	index := app.BoardService.Cards().IndexOf(card.ID)
	if jsonOutput {
		if err := printJson(NewCardOutput(card, index)); err != nil {
			Fatal(err)
		}
		return
	}

	PrintSuccess("Added %s (%s)", cardLabel(card, index), RenderID(card.ID))
}
