package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/ra"

	"github.com/emilianobruni/erflow/internal/model"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display card details")

	ctx.ShowCard, _ = ra.NewString("card").
		SetUsage("Card ID, position or patient name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.ShowJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(ref string, jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()

	card, index, err := app.CardResolver.Resolve(ref)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewCardOutput(card, index)); err != nil {
			Fatal(err)
		}
		return
	}
	printCard(card, index)
}

func printCard(card model.Card, index int) {
	const labelWidth = 10

	title := card.PatientName
	if title == "" {
		title = "(unnamed)"
	}
	fmt.Println(TitleBox(title))
	fmt.Println()

	fmt.Println(LabelValue("ID", RenderID(card.ID), labelWidth))
	fmt.Println(LabelValue("Position", fmt.Sprintf("%d", index+1), labelWidth))
	fmt.Println(LabelValue("Colour", fmt.Sprintf("%s %s", TriageSwatch(card.Color), RenderTriage(card.Color)), labelWidth))
	fmt.Println(LabelValue("Pathology", RenderBlank(card.Pathology), labelWidth))
	fmt.Println(LabelValue("Location", RenderBlank(string(card.Location)), labelWidth))
	fmt.Println(LabelValue("Moved", RenderBlank(string(card.Moved)), labelWidth))
	if card.MovedTo != "" {
		fmt.Println(LabelValue("Moved to", card.MovedTo, labelWidth))
	}
	if card.Collapsed {
		fmt.Println(LabelValue("Collapsed", "yes", labelWidth))
	}

	if card.Content != "" {
		fmt.Println()
		fmt.Println(RenderMuted("Notes:"))
		fmt.Printf("  %s\n", strings.ReplaceAll(card.Content, "\n", "\n  "))
	}
}
