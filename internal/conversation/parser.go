// Package conversation turns typed user input into commands.
package conversation

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// KeywordParser matches user input to commands using English and Spanish
// keywords.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// cookPattern captures the argument text after a cook verb.
var cookPattern = regexp.MustCompile(`(?i)^(cook|cocina|cocinar|receta|recipe)\s+(.+)$`)

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log.Named("parser")}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(play|read|leer|lee|reproducir|start)$`), domain.CommandPlay},
		{regexp.MustCompile(`(?i)^(pause|pausa|pausar|wait|p)$`), domain.CommandPause},
		{regexp.MustCompile(`(?i)^(resume|continue|continuar|sigue|seguir|reanudar)$`), domain.CommandResume},
		{regexp.MustCompile(`(?i)^(stop|para|parar|detener|silencio)$`), domain.CommandStop},
		{regexp.MustCompile(`(?i)^(test|selftest|self-test|prueba|probar)$`), domain.CommandSelfTest},
		{regexp.MustCompile(`(?i)^(status|estado|where|progress)$`), domain.CommandStatus},
		{regexp.MustCompile(`(?i)^(show|recipe|receta|mostrar|ver)$`), domain.CommandShow},
		{regexp.MustCompile(`(?i)^(help|ayuda|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|salir|q)$`), domain.CommandQuit},
	}
	return p
}

// Parse converts user input into a command. Unrecognized input yields
// CommandUnknown with the trimmed text as its only argument.
func (p *KeywordParser) Parse(input string) domain.Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.Command{Type: domain.CommandUnknown}
	}

	p.log.Debug("parsing input: %q", trimmed)

	if m := cookPattern.FindStringSubmatch(trimmed); m != nil {
		return domain.Command{Type: domain.CommandCook, Args: cookArgs(m[2])}
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched command: %s", rule.command)
			return domain.Command{Type: rule.command}
		}
	}

	p.log.Debug("no match, returning unknown command")
	return domain.Command{Type: domain.CommandUnknown, Args: []string{trimmed}}
}

// cookArgs splits "<path> [meal]" into its parts. A trailing word that
// names a meal type is taken as the meal; everything before it is the path,
// so paths may contain spaces. Surrounding quotes are dropped.
func cookArgs(rest string) []string {
	rest = strings.TrimSpace(rest)
	path, meal := rest, ""
	if i := strings.LastIndexAny(rest, " \t"); i != -1 {
		if m, err := domain.ParseMealType(rest[i+1:]); err == nil {
			path, meal = strings.TrimSpace(rest[:i]), m.String()
		}
	}
	path = strings.Trim(path, `"'`)
	if meal == "" {
		return []string{path}
	}
	return []string{path, meal}
}
