package cmd

import (
	"errors"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/tara-vision/stackhat/internal/project"
)

var slashCommands = []string{
	"/compile", "/explorer", "/help", "/open", "/reset", "/status", "/terminal", "/tree",
}

// ForestCompleter implements readline.AutoCompleter over the node names
// of the current project
type ForestCompleter struct {
	forest func() project.Forest
}

// NewForestCompleter creates a completer reading the forest through fn
func NewForestCompleter(fn func() project.Forest) *ForestCompleter {
	return &ForestCompleter{forest: fn}
}

// Do implements readline.AutoCompleter
func (f *ForestCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	candidates, typed := complete(string(line[:pos]), f.forest())
	out := make([][]rune, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, []rune(c))
	}
	return out, typed
}

// complete returns the suffixes that finish the word being typed and
// the rune length of that word. cat only sees top-level names, matching
// the terminal; add code to and /open see the whole tree.
func complete(line string, forest project.Forest) ([]string, int) {
	lower := strings.ToLower(line)

	var partial string
	var names []string
	switch {
	case strings.HasPrefix(lower, "cat "):
		partial = line[len("cat "):]
		for _, n := range forest {
			names = append(names, n.Name)
		}
	case strings.HasPrefix(lower, "add code to "):
		partial = line[len("add code to "):]
		if strings.Contains(partial, ":") {
			return nil, 0
		}
		names = uniqueNames(forest)
	case strings.HasPrefix(lower, "/open "):
		partial = line[len("/open "):]
		names = forest.FilePaths()
	case strings.HasPrefix(line, "/") && !strings.Contains(line, " "):
		partial = line
		names = slashCommands
	default:
		return nil, 0
	}

	partialLower := strings.ToLower(partial)
	var out []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), partialLower) {
			out = append(out, string([]rune(name)[len([]rune(partial)):]))
		}
	}
	return out, len([]rune(partial))
}

func uniqueNames(forest project.Forest) []string {
	seen := make(map[string]bool)
	var names []string
	forest.Walk(func(n *project.Node) bool {
		if !seen[n.Name] {
			seen[n.Name] = true
			names = append(names, n.Name)
		}
		return true
	})
	sort.Strings(names)
	return names
}

// selectFile shows an interactive picker over the project's file paths
func selectFile(forest project.Forest) (string, error) {
	files := forest.FilePaths()
	if len(files) == 0 {
		return "", errors.New("project has no files")
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(files[index]), strings.ToLower(input))
	}

	prompt := promptui.Select{
		Label:             "Select a file",
		Items:             files,
		Size:              20,
		Searcher:          searcher,
		StartInSearchMode: true,
		HideSelected:      true,
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}
