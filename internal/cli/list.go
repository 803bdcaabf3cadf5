package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/ra"

	"github.com/emilianobruni/erflow/internal/model"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List cards, optionally filtered by patient name")

	ctx.ListSearch, _ = ra.NewString("search").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show only cards whose patient name contains this text").
		Register(cmd)

	ctx.ListAll, _ = ra.NewBool("all").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show notes of collapsed cards too").
		Register(cmd)

	ctx.ListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(search string, all, jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()

	board := app.BoardService
	board.SetSearchQuery(search)
	cards := board.Cards()
	shown := board.Filtered()

	if jsonOutput {
		if err := printJson(NewListOutput(cards, shown, search)); err != nil {
			Fatal(err)
		}
		return
	}

	if len(cards) == 0 {
		PrintInfo("No cards")
		return
	}

	if search != "" {
		fmt.Println(RenderMuted(fmt.Sprintf("Search %q: %d of %d cards", search, len(shown), len(cards))))
		fmt.Println()
	}
	if len(shown) == 0 {
		PrintInfo("No cards match %q", search)
	}

	for _, card := range shown {
		printCardRow(card, cards.IndexOf(card.ID), all)
	}

	fmt.Println()
	fmt.Println(renderTally(cards.Tally()))
}

// printCardRow prints one card as a summary line, followed by its notes
// unless the card is collapsed.
func printCardRow(card model.Card, index int, showCollapsed bool) {
	name := card.PatientName
	if name == "" {
		name = RenderMuted("(unnamed)")
	}

	parts := []string{
		RenderMuted(fmt.Sprintf("%3d.", index+1)),
		TriageSwatch(card.Color),
		RenderBold(name),
	}
	if card.Pathology != "" {
		parts = append(parts, card.Pathology)
	}
	if strings.TrimSpace(string(card.Location)) != "" {
		parts = append(parts, StyleInfo.Render(string(card.Location)))
	}
	if strings.TrimSpace(string(card.Moved)) != "" {
		moved := string(card.Moved)
		if card.MovedTo != "" {
			moved += " " + card.MovedTo
		}
		parts = append(parts, StyleWarning.Render(moved))
	}
	if card.Collapsed {
		parts = append(parts, RenderMuted("[collapsed]"))
	}
	fmt.Println(strings.Join(parts, "  "))

	if card.Content != "" && (!card.Collapsed || showCollapsed) {
		fmt.Printf("       %s\n", RenderMuted(strings.ReplaceAll(card.Content, "\n", "\n       ")))
	}
}

// renderTally renders the colour counts as one line of swatches.
func renderTally(t model.Tally) string {
	parts := make([]string, 0, len(model.Colors)+1)
	for _, c := range model.Colors {
		parts = append(parts, fmt.Sprintf("%s %d", TriageSwatch(c), t.Count(c)))
	}
	parts = append(parts, RenderMuted(fmt.Sprintf("total %d", t.Total)))
	return strings.Join(parts, "  ")
}
