package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tara-vision/stackhat/internal/project"
)

func completerForest() project.Forest {
	return project.BuildTree([]project.FileSpec{
		{Path: "src/app.js", Content: "X"},
		{Path: "src/api.js", Content: "Y"},
		{Path: "README.md", Content: "Z"},
		{Path: "app.json", Content: "{}"},
	})
}

func TestCompleteCatUsesTopLevelOnly(t *testing.T) {
	got, typed := complete("cat ap", completerForest())
	assert.Equal(t, 2, typed)
	assert.Equal(t, []string{"p.json"}, got)
}

func TestCompleteAddCodeSearchesWholeTree(t *testing.T) {
	got, typed := complete("add code to AP", completerForest())
	assert.Equal(t, 2, typed)
	assert.Equal(t, []string{"i.js", "p.js", "p.json"}, got)

	got, _ = complete("add code to app.js: x", completerForest())
	assert.Empty(t, got)
}

func TestCompleteOpenUsesPaths(t *testing.T) {
	got, typed := complete("/open src/a", completerForest())
	assert.Equal(t, 5, typed)
	assert.Equal(t, []string{"pp.js", "pi.js"}, got)
}

func TestCompleteSlashCommands(t *testing.T) {
	got, typed := complete("/t", nil)
	assert.Equal(t, 2, typed)
	assert.Equal(t, []string{"erminal", "ree"}, got)
}

func TestCompleteNothing(t *testing.T) {
	got, typed := complete("build me a shop", completerForest())
	assert.Empty(t, got)
	assert.Zero(t, typed)
}

func TestForestCompleterDo(t *testing.T) {
	c := NewForestCompleter(completerForest)
	line := []rune("cat READ")
	got, typed := c.Do(line, len(line))
	assert.Equal(t, 4, typed)
	assert.Equal(t, [][]rune{[]rune("ME.md")}, got)
}
