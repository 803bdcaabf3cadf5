package cli

import (
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/config"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool

	// init command
	InitUsed *bool

	// add command
	AddUsed      *bool
	AddName      *string
	AddPathology *string
	AddColor     *string
	AddLocation  *string
	AddMoved     *string
	AddMovedTo   *string
	AddContent   *string
	AddJson      *bool

	// list command
	ListUsed   *bool
	ListSearch *string
	ListAll    *bool
	ListJson   *bool

	// show command
	ShowUsed *bool
	ShowCard *string
	ShowJson *bool

	// edit command
	EditUsed        *bool
	EditCard        *string
	EditName        *string
	EditPathology   *string
	EditColor       *string
	EditLocation    *string
	EditMoved       *string
	EditMovedTo     *string
	EditContent     *string
	EditCollapsed   *string
	EditNotesEditor *bool

	// remove command
	RemoveUsed *bool
	RemoveCard *string

	// up / down / move commands
	UpUsed   *bool
	UpCard   *string
	DownUsed *bool
	DownCard *string
	MoveUsed *bool
	MoveFrom *int
	MoveTo   *int

	// collapse / expand commands
	CollapseUsed *bool
	ExpandUsed   *bool

	// delete-all command
	DeleteAllUsed  *bool
	DeleteAllForce *bool

	// export / import / paste commands
	ExportUsed *bool
	ExportDir  *string
	ImportUsed *bool
	ImportFile *string
	PasteUsed  *bool
	PasteStdin *bool

	// tally command
	TallyUsed *bool
	TallyJson *bool

	// dark-mode command
	DarkUsed    *bool
	DarkSetting *string

	// doctor command
	DoctorUsed *bool
	DoctorFix  *bool
	DoctorJson *bool

	// serve command
	ServeUsed      *bool
	ServePort      *int
	ServeEphemeral *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	setupEnvironment()

	ctx := &CommandContext{}

	cmd := ra.NewCmd("erflow")
	cmd.SetDescription("Emergency-room triage cards")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	registerInit(cmd, ctx)
	registerAdd(cmd, ctx)
	registerList(cmd, ctx)
	registerShow(cmd, ctx)
	registerEdit(cmd, ctx)
	registerRemove(cmd, ctx)
	registerOrder(cmd, ctx)
	registerDeleteAll(cmd, ctx)
	registerTransfer(cmd, ctx)
	registerTally(cmd, ctx)
	registerDarkMode(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerServe(cmd, ctx)
	registerCompletion(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx, cmd)
}

// setupEnvironment loads .env from the working directory and configures logging.
// A missing .env is normal; values already in the environment win.
func setupEnvironment() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		PrintWarning("failed to load .env: %v", err)
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)
	if raw := strings.TrimSpace(os.Getenv(config.EnvLogLevel)); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			PrintWarning("ignoring %s=%q: %v", config.EnvLogLevel, raw, err)
			return
		}
		log.SetLevel(level)
	}
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.InitUsed:
		runInit()

	case *ctx.AddUsed:
		runAdd(addFlags{
			name:      *ctx.AddName,
			pathology: *ctx.AddPathology,
			color:     *ctx.AddColor,
			location:  *ctx.AddLocation,
			moved:     *ctx.AddMoved,
			movedTo:   *ctx.AddMovedTo,
			content:   *ctx.AddContent,
		}, *ctx.AddJson)

	case *ctx.ListUsed:
		runList(*ctx.ListSearch, *ctx.ListAll, *ctx.ListJson)

	case *ctx.ShowUsed:
		runShow(*ctx.ShowCard, *ctx.ShowJson)

	case *ctx.EditUsed:
		runEdit(*ctx.EditCard, editFlags{
			name:        *ctx.EditName,
			pathology:   *ctx.EditPathology,
			color:       *ctx.EditColor,
			location:    *ctx.EditLocation,
			moved:       *ctx.EditMoved,
			movedTo:     *ctx.EditMovedTo,
			content:     *ctx.EditContent,
			collapsed:   *ctx.EditCollapsed,
			notesEditor: *ctx.EditNotesEditor,
		}, interactive)

	case *ctx.RemoveUsed:
		runRemove(*ctx.RemoveCard, interactive)

	case *ctx.UpUsed:
		runUp(*ctx.UpCard)

	case *ctx.DownUsed:
		runDown(*ctx.DownCard)

	case *ctx.MoveUsed:
		runMove(*ctx.MoveFrom, *ctx.MoveTo)

	case *ctx.CollapseUsed:
		runCollapse(true)

	case *ctx.ExpandUsed:
		runCollapse(false)

	case *ctx.DeleteAllUsed:
		runDeleteAll(*ctx.DeleteAllForce, interactive)

	case *ctx.ExportUsed:
		runExport(*ctx.ExportDir)

	case *ctx.ImportUsed:
		runImport(*ctx.ImportFile)

	case *ctx.PasteUsed:
		runPaste(*ctx.PasteStdin)

	case *ctx.TallyUsed:
		runTally(*ctx.TallyJson)

	case *ctx.DarkUsed:
		runDarkMode(*ctx.DarkSetting)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorJson)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeEphemeral)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
