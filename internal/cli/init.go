package cli

import (
	"fmt"
	"os"

	"github.com/amterp/ra"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Create a project-local .erflow data directory at the git repository root, or here outside a repository")

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit() {
	cwd, err := os.Getwd()
	if err != nil {
		Fatal(fmt.Errorf("failed to get working directory: %w", err))
	}

	result, err := NewInitService().Initialize(cwd)
	if err != nil {
		Fatal(err)
	}

	if result.Created {
		PrintSuccess("Initialized erflow in %s", result.DataDir)
	} else {
		PrintInfo("erflow already initialized in %s", result.DataDir)
	}
	if !result.InRepository {
		fmt.Println(RenderMuted("  Not in a git repository; created in the current directory"))
	}
	if result.GlobalConfig != "" {
		fmt.Println(RenderMuted("  Global config: " + result.GlobalConfig))
	}
}
