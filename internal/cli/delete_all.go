package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDeleteAll(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete-all")
	cmd.SetDescription("Delete every card")

	ctx.DeleteAllForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteAllUsed, _ = parent.RegisterCmd(cmd)
}

func runDeleteAll(force, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	count := len(app.BoardService.Cards())
	if count == 0 {
		PrintInfo("No cards to delete")
		return
	}

	confirmed := force
	if !confirmed {
		if !interactive {
			Fatal(fmt.Errorf("deleting all %d card(s) requires --force in non-interactive mode", count))
		}

		var err error
		confirmed, err = app.Prompter.Confirm(
			fmt.Sprintf("Delete all %d card(s)? This cannot be undone.", count),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.BoardService.DeleteAll(confirmed); err != nil {
		Fatal(err)
	}
	PrintSuccess("Deleted %d card(s)", count)
}
