package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/amterp/ra"

	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/discovery"
	"github.com/emilianobruni/erflow/internal/id"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/service"
	"github.com/emilianobruni/erflow/internal/store"
)

// completionCtx provides read-only card access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// and must never seed or rewrite storage, so this reads the raw key instead
// of going through BoardService.
type completionCtx struct {
	once  sync.Once
	cards model.CardList
}

var compCtx completionCtx

func loadCompletionCards() model.CardList {
	compCtx.once.Do(func() {
		globalCfg, err := store.NewGlobalStore().Load()
		if err != nil {
			// Graceful degradation: no completions if global config is broken
			return
		}
		dataDir, err := discovery.ResolveDataDir(globalCfg)
		if err != nil {
			return
		}
		kv, err := store.Open(globalCfg, config.NewPaths(dataDir.DataDir))
		if err != nil {
			return
		}
		defer closeStore(kv)

		raw, ok, err := kv.Get(store.KeyCards)
		if err != nil || !ok {
			return
		}
		cards, err := service.ReconcileJSON(raw, id.Generate)
		if err != nil {
			return
		}
		compCtx.cards = cards
	})
	return compCtx.cards
}

// completeCards offers card IDs, positions and patient names.
func completeCards(toComplete string) ([]string, ra.CompletionDirective) {
	return cardCompletions(loadCompletionCards(), toComplete), ra.CompletionDirectiveNoFileComp
}

func cardCompletions(cards model.CardList, toComplete string) []string {
	prefix := strings.ToLower(toComplete)
	var result []string
	for i, card := range cards {
		if pos := strconv.Itoa(i + 1); strings.HasPrefix(pos, toComplete) {
			result = append(result, pos)
		}
		if card.ID != "" && strings.HasPrefix(card.ID, toComplete) {
			result = append(result, card.ID)
		}
		if card.PatientName != "" && strings.HasPrefix(strings.ToLower(card.PatientName), prefix) {
			result = append(result, card.PatientName)
		}
	}
	return result
}

func completeColors(toComplete string) ([]string, ra.CompletionDirective) {
	values := make([]string, 0, len(model.Colors)*2)
	for _, c := range model.Colors {
		values = append(values, string(c), c.EnglishName())
	}
	return prefixed(values, toComplete), ra.CompletionDirectiveNoFileComp
}

func completeLocations(toComplete string) ([]string, ra.CompletionDirective) {
	values := []string{blankFlag}
	for _, l := range model.Locations {
		if l != model.LocationBlank {
			values = append(values, string(l))
		}
	}
	return prefixed(values, toComplete), ra.CompletionDirectiveNoFileComp
}

func completeMoved(toComplete string) ([]string, ra.CompletionDirective) {
	return prefixed([]string{string(model.MovedR), string(model.MovedD), blankFlag}, toComplete), ra.CompletionDirectiveNoFileComp
}

func completeDarkMode(toComplete string) ([]string, ra.CompletionDirective) {
	return prefixed([]string{"on", "off", "toggle"}, toComplete), ra.CompletionDirectiveNoFileComp
}

// prefixed returns the values starting with toComplete, ignoring case.
func prefixed(values []string, toComplete string) []string {
	prefix := strings.ToLower(toComplete)
	var result []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			result = append(result, v)
		}
	}
	return result
}

// registerCompletion adds the "erflow completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
