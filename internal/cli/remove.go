package cli

import (
	"github.com/amterp/ra"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/prompt"
)

func registerRemove(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("remove")
	cmd.SetDescription("Remove a card. Without an argument, pick cards interactively.")

	ctx.RemoveCard, _ = ra.NewString("card").
		SetOptional(true).
		SetUsage("Card ID, position or patient name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.RemoveUsed, _ = parent.RegisterCmd(cmd)
}

func runRemove(ref string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	if ref != "" {
		card, index, err := app.CardResolver.Resolve(ref)
		if err != nil {
			Fatal(err)
		}
		if err := app.BoardService.RemoveCard(card.ID); err != nil {
			Fatal(err)
		}
		PrintSuccess("Removed %s", cardLabel(card, index))
		return
	}

	if !interactive {
		Fatal(kanerr.InvalidField("card", "required in non-interactive mode"))
	}

	cards := app.BoardService.Cards()
	if len(cards) == 0 {
		PrintInfo("No cards to remove")
		return
	}

	choices := make([]prompt.Choice, len(cards))
	for i, c := range cards {
		choices[i] = prompt.Choice{Label: cardLabel(c, i), Value: c.ID}
	}
	ids, err := app.Prompter.MultiSelect("Cards to remove", choices)
	if err != nil {
		Fatal(err)
	}
	if len(ids) == 0 {
		PrintInfo("Cancelled")
		return
	}

	for _, id := range ids {
		if err := app.BoardService.RemoveCard(id); err != nil {
			Fatal(err)
		}
	}
	PrintSuccess("Removed %d card(s)", len(ids))
}
