package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/conversation"
	"github.com/hammamikhairi/chefai/internal/display"
	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/kitchen"
	"github.com/hammamikhairi/chefai/internal/logger"
	"github.com/hammamikhairi/chefai/internal/speech"
)

// output is the part of the terminal UI the app writes to.
type output interface {
	PrintChat(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintBlock(text string)
	PrintVoice(text string)
	SetBusy(label string)
}

type cooker interface {
	Cook(ctx context.Context, img domain.Image, meal domain.MealType) (*kitchen.Dish, error)
}

type cliApp struct {
	kitchen   cooker
	speech    domain.SpeechBackend
	parser    *conversation.KeywordParser
	usage     *chef.Usage
	ui        output
	log       *logger.Logger
	loadImage func(path string) (domain.Image, error)
	meal      domain.MealType // used when "cook" names no meal
	voice     <-chan string   // nil when voice input is disabled

	dish     *kitchen.Dish
	segments []string
}

const helpText = `Commands:
  cook <photo> [meal]   generate a recipe (meal: breakfast, lunch, dinner, dessert, snack)
  play | pause | resume | stop   read the recipe aloud
  test                  speak a short test phrase
  show                  print the current recipe again
  status                playback and API usage
  help | quit`

// run reads lines from input, and from the voice channel when set, until
// input closes, ctx ends or the user quits.
func (a *cliApp) run(ctx context.Context, input <-chan string) {
	a.ui.PrintChat("Hola! Send me a photo of your ingredients with: cook <photo> [meal]")

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case line, ok = <-input:
			if !ok {
				return
			}
		case line = <-a.voice:
			a.ui.PrintVoice(line)
		}

		cmd := a.parser.Parse(line)
		a.log.Debug("command: %s %q", cmd.Type, cmd.Args)
		if !a.handle(ctx, cmd) {
			return
		}
	}
}

// handle executes one command. It returns false when the app should exit.
func (a *cliApp) handle(ctx context.Context, cmd domain.Command) bool {
	switch cmd.Type {
	case domain.CommandCook:
		a.cook(ctx, cmd.Args)
	case domain.CommandShow:
		if a.dish == nil {
			a.ui.PrintHint("No recipe yet. Try: cook <photo>")
			return true
		}
		a.ui.PrintBlock(display.RenderRecipe(a.dish))
	case domain.CommandPlay:
		if len(a.segments) == 0 {
			a.ui.PrintHint("Nothing to read yet.")
			return true
		}
		if err := a.speech.Play(a.segments, 0); err != nil {
			a.ui.PrintUrgent("Could not start reading: " + err.Error())
		}
	case domain.CommandPause:
		a.speech.Pause()
	case domain.CommandResume:
		a.speech.Resume()
	case domain.CommandStop:
		a.speech.Stop()
	case domain.CommandSelfTest:
		if err := a.speech.SelfTest(ctx); err != nil {
			a.ui.PrintUrgent("Speech test failed: " + err.Error())
		} else {
			a.ui.PrintHint("Speech test sent.")
		}
	case domain.CommandStatus:
		a.ui.PrintHint(a.statusLine())
	case domain.CommandHelp:
		a.ui.PrintBlock(helpText)
	case domain.CommandQuit:
		a.speech.Stop()
		a.ui.PrintChat("¡Buen provecho!")
		return false
	default:
		if len(cmd.Args) > 0 {
			a.ui.PrintHint(fmt.Sprintf("I didn't get %q. Type 'help' for commands.", cmd.Args[0]))
		}
	}
	return true
}

func (a *cliApp) cook(ctx context.Context, args []string) {
	meal := a.meal
	if len(args) > 1 {
		m, err := domain.ParseMealType(args[1])
		if err != nil {
			a.ui.PrintUrgent(err.Error())
			return
		}
		meal = m
	}

	img, err := a.loadImage(args[0])
	if err != nil {
		a.ui.PrintUrgent("Could not use that photo: " + err.Error())
		return
	}

	a.ui.SetBusy("Creando una receta única para ti...")
	dish, err := a.kitchen.Cook(ctx, img, meal)
	a.ui.SetBusy("")
	if err != nil {
		var qe *domain.QuotaError
		if errors.As(err, &qe) {
			a.ui.PrintUrgent(display.QuotaMessage(qe))
			return
		}
		a.log.Error("cook failed: %v", err)
		a.ui.PrintUrgent(display.FailureMessage)
		return
	}

	// A new recipe replaces whatever was being read.
	a.speech.Stop()
	a.dish = dish
	a.segments = speech.PrepareSegments(dish.Recipe)
	a.ui.PrintBlock(display.RenderRecipe(dish))
	a.ui.PrintHint("Type 'play' to hear it.")
}

func (a *cliApp) statusLine() string {
	st := a.speech.Status()
	parts := []string{"voice: " + st.State.String()}
	if st.Total > 0 {
		parts = append(parts, fmt.Sprintf("segment %d of %d", st.Cursor+1, st.Total))
	}
	if a.usage != nil {
		n, last := a.usage.Snapshot()
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d model request(s), last at %s", n, last.Format("15:04:05")))
		}
	}
	return strings.Join(parts, ", ")
}
