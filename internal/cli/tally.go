package cli

import (
	"fmt"

	"github.com/amterp/ra"

	"github.com/emilianobruni/erflow/internal/model"
)

func registerTally(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("tally")
	cmd.SetDescription("Count cards per triage colour")

	ctx.TallyJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.TallyUsed, _ = parent.RegisterCmd(cmd)
}

func runTally(jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()

	tally := app.BoardService.Tally()
	if jsonOutput {
		if err := printJson(TallyOutput{Tally: tally}); err != nil {
			Fatal(err)
		}
		return
	}
	fmt.Println(Box(tallyTable(tally)))
}

// tallyTable renders one row per colour with the total underneath.
func tallyTable(t model.Tally) string {
	var out string
	for _, c := range model.Colors {
		out += fmt.Sprintf("%s %-7s %3d\n", TriageSwatch(c), c, t.Count(c))
	}
	out += RenderMuted(fmt.Sprintf("   %-7s %3d", "total", t.Total))
	return out
}
