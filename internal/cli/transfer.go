package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/amterp/ra"

	"github.com/emilianobruni/erflow/internal/clipboard"
	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/util"
)

func registerTransfer(parent *ra.Cmd, ctx *CommandContext) {
	export := ra.NewCmd("export")
	export.SetDescription("Write all cards to erflow-cards-YYYY-MM-DD.json")
	ctx.ExportDir, _ = ra.NewString("dir").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Directory to write to (default: export.dir from config, else current directory)").
		Register(export)
	ctx.ExportUsed, _ = parent.RegisterCmd(export)

	imp := ra.NewCmd("import")
	imp.SetDescription("Replace all cards with the contents of an exported JSON file")
	ctx.ImportFile, _ = ra.NewString("file").
		SetUsage("Path to a JSON export").
		Register(imp)
	ctx.ImportUsed, _ = parent.RegisterCmd(imp)

	paste := ra.NewCmd("paste")
	paste.SetDescription("Append one card per line of text, named after the line")
	ctx.PasteStdin, _ = ra.NewBool("stdin").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Read lines from standard input instead of the clipboard").
		Register(paste)
	ctx.PasteUsed, _ = parent.RegisterCmd(paste)
}

func runExport(dir string) {
	app := mustApp(false)
	defer app.Close()

	if dir == "" {
		dir = app.GlobalConfig.Export.Dir
	}

	now := time.Now()
	name, data, err := app.BoardService.ExportJSON(now)
	if err != nil {
		Fatal(err)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			Fatal(kanerr.Environment("export directory", err))
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		Fatal(kanerr.Environment("export file", err))
	}

	PrintSuccess("Exported %d card(s) to %s", len(app.BoardService.Cards()), path)
	PrintInfo("Snapshot taken %s", util.FormatTime(now))
}

func runImport(file string) {
	data, err := os.ReadFile(file)
	if err != nil {
		Fatal(fmt.Errorf("failed to read %s: %w", file, err))
	}

	app := mustApp(false)
	defer app.Close()

	count, err := app.BoardService.ImportJSON(string(data))
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Imported %d card(s) from %s", count, file)
}

func runPaste(fromStdin bool) {
	app := mustApp(false)
	defer app.Close()

	source := app.Clipboard
	if fromStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			Fatal(fmt.Errorf("failed to read standard input: %w", err))
		}
		source = clipboard.Static(data)
	}

	count, err := app.BoardService.ImportFromClipboard(source)
	if err != nil {
		if kanerr.IsEnvironmentError(err) && !fromStdin {
			PrintWarning("Clipboard unavailable; pipe the text in with --stdin instead")
		}
		Fatal(err)
	}
	PrintSuccess("Added %d card(s)", count)
}
