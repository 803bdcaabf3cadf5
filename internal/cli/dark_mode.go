package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/ra"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
)

func registerDarkMode(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("dark-mode")
	cmd.SetDescription("Show or change the dark-mode preference shared with the web client")

	ctx.DarkSetting, _ = ra.NewString("setting").
		SetOptional(true).
		SetUsage("on, off or toggle (omit to show the current value)").
		SetCompletionFunc(completeDarkMode).
		Register(cmd)

	ctx.DarkUsed, _ = parent.RegisterCmd(cmd)
}

func runDarkMode(setting string) {
	app := mustApp(false)
	defer app.Close()

	board := app.BoardService
	var err error
	switch strings.ToLower(setting) {
	case "":
		fmt.Println(onOff(board.DarkMode()))
		return
	case "on", "true":
		err = board.SetDarkMode(true)
	case "off", "false":
		err = board.SetDarkMode(false)
	case "toggle":
		_, err = board.ToggleDarkMode()
	default:
		Fatal(kanerr.InvalidField("setting", fmt.Sprintf("%q is not on, off or toggle", setting)))
	}
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Dark mode %s", onOff(board.DarkMode()))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
