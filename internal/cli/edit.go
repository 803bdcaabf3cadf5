package cli

import (
	"fmt"

	"github.com/amterp/ra"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/prompt"
)

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit an existing card. Prompts for each field when no flags are given.")

	ctx.EditCard, _ = ra.NewString("card").
		SetUsage("Card ID, position or patient name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.EditName, _ = ra.NewString("name").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Patient name").
		Register(cmd)

	ctx.EditPathology, _ = ra.NewString("pathology").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Pathology").
		Register(cmd)

	ctx.EditColor, _ = ra.NewString("color").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Triage colour").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.EditLocation, _ = ra.NewString("location").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Ward code, or - for blank").
		SetCompletionFunc(completeLocations).
		Register(cmd)

	ctx.EditMoved, _ = ra.NewString("moved").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("R, D, or - for blank").
		SetCompletionFunc(completeMoved).
		Register(cmd)

	ctx.EditMovedTo, _ = ra.NewString("moved-to").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Transfer destination").
		Register(cmd)

	ctx.EditContent, _ = ra.NewString("content").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Replace clinical notes").
		Register(cmd)

	ctx.EditCollapsed, _ = ra.NewString("collapsed").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("true or false").
		Register(cmd)

	ctx.EditNotesEditor, _ = ra.NewBool("notes-editor").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Open the notes in $EDITOR").
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

func runEdit(ref string, flags editFlags, interactive bool) {
	patch, err := flags.patch()
	if err != nil {
		Fatal(err)
	}

	app := mustApp(interactive)
	defer app.Close()

	card, index, err := app.CardResolver.Resolve(ref)
	if err != nil {
		Fatal(err)
	}

	if patch.IsEmpty() && !flags.notesEditor {
		if !interactive {
			Fatal(kanerr.InvalidField("edit", "no field flags given (prompting disabled by --non-interactive)"))
		}
		patch, err = promptCardPatch(app.Prompter, card)
		if err != nil {
			Fatal(err)
		}
		wantNotes, err := app.Prompter.Confirm("Edit notes in your editor?", false)
		if err != nil {
			Fatal(err)
		}
		flags.notesEditor = wantNotes
	}

	if flags.notesEditor {
		notes, err := app.Editor.EditNotes(patch.Apply(card))
		if err != nil {
			Fatal(fmt.Errorf("editor failed: %w", err))
		}
		if notes != card.Content {
			patch.Content = &notes
		}
	}

	if patch.IsEmpty() {
		PrintInfo("No changes")
		return
	}

	if err := app.BoardService.UpdateCard(card.ID, patch); err != nil {
		Fatal(err)
	}
	PrintSuccess("Updated %s", cardLabel(patch.Apply(card), index))
}

// promptCardPatch asks for each field and returns only what changed.
func promptCardPatch(p prompt.Prompter, card model.Card) (model.CardPatch, error) {
	var patch model.CardPatch

	name, err := p.Input("Patient name", card.PatientName)
	if err != nil {
		return patch, err
	}
	if name != card.PatientName {
		patch.PatientName = &name
	}

	pathology, err := p.Input("Pathology", card.Pathology)
	if err != nil {
		return patch, err
	}
	if pathology != card.Pathology {
		patch.Pathology = &pathology
	}

	color, err := p.Select("Triage colour", colorChoices(), string(card.Color))
	if err != nil {
		return patch, err
	}
	if c := model.Color(color); c != card.Color {
		patch.Color = &c
	}

	location, err := p.Select("Location", locationChoices(), string(card.Location))
	if err != nil {
		return patch, err
	}
	if l := model.Location(location); l != card.Location {
		patch.Location = &l
	}

	moved, err := p.Select("Moved", movedChoices(), string(card.Moved))
	if err != nil {
		return patch, err
	}
	if m := model.Moved(moved); m != card.Moved {
		patch.Moved = &m
	}

	movedTo, err := p.Input("Moved to", card.MovedTo)
	if err != nil {
		return patch, err
	}
	if movedTo != card.MovedTo {
		patch.MovedTo = &movedTo
	}

	return patch, nil
}
