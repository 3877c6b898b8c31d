package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() Forest {
	return BuildTree([]FileSpec{
		{Path: "src/app.js", Content: "X"},
		{Path: "src/lib/util.js", Content: "U"},
		{Path: "README.md", Content: "# readme"},
	})
}

func TestAppendContentCopiesOnWrite(t *testing.T) {
	before := sampleForest()
	original := before.Clone()

	after, match := before.AppendContent("APP.JS", "console.log(1)")
	require.NotNil(t, match)

	assert.Equal(t, "X\n\nconsole.log(1)", after.Find("src/app.js").Text())
	assert.Equal(t, original, before, "receiver must not change")
	assert.Len(t, after, len(before))
	assert.Same(t, before[1], after[1], "untouched subtrees are shared")
	assert.Same(t, before[0].Children[1], after[0].Children[1])
}

func TestAppendContentNoMatch(t *testing.T) {
	before := sampleForest()
	after, match := before.AppendContent("missing.js", "x")
	assert.Nil(t, match)
	assert.Equal(t, before, after)
}

func TestAppendContentWithoutExistingContent(t *testing.T) {
	forest := Forest{{Name: "notes.txt", Type: TypeFile, Path: "notes.txt"}}
	after, match := forest.AppendContent("notes.txt", "hello")
	require.NotNil(t, match)
	assert.Equal(t, "\n\nhello", match.Text())
	assert.Nil(t, forest[0].Content)
	assert.Equal(t, match, after[0])
}

func TestFindByNameIsPreOrder(t *testing.T) {
	forest := BuildTree([]FileSpec{
		{Path: "a/index.js", Content: "nested"},
		{Path: "index.js", Content: "top"},
	})

	n := forest.FindByName("index.js")
	require.NotNil(t, n)
	assert.Equal(t, "a/index.js", n.Path)

	top := forest.FindTopLevel("INDEX.JS")
	require.NotNil(t, top)
	assert.Equal(t, "index.js", top.Path)
}

func TestWithFileAppendsTopLevel(t *testing.T) {
	before := sampleForest()
	after := before.WithFile("new.js", "1+1")

	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, "new.js", last.Name)
	assert.Equal(t, "new.js", last.Path)
	assert.Equal(t, "1+1", last.Text())
	assert.Len(t, before, 2)
}

func TestCloneIsDeep(t *testing.T) {
	forest := sampleForest()
	clone := forest.Clone()

	*clone[0].Children[0].Content = "changed"
	clone[0].Children = nil

	assert.Equal(t, "X", forest.Find("src/app.js").Text())
	assert.Len(t, forest[0].Children, 2)
}

func TestCounts(t *testing.T) {
	forest := sampleForest()
	assert.Equal(t, 3, forest.CountFiles())
	assert.Equal(t, 2, forest.CountDirs())
	assert.Equal(t, 3, forest.MaxDepth())
	assert.Equal(t, []string{"src/app.js", "src/lib/util.js", "README.md"}, forest.FilePaths())
	assert.Equal(t, 0, Forest{}.MaxDepth())
}

func TestDetectFileType(t *testing.T) {
	cases := map[string]string{
		"main.go":          "go",
		"src/App.TSX":      "typescript",
		"Dockerfile":       "dockerfile",
		"contracts/X.sol":  "solidity",
		"data.weird":       "weird",
		"LICENSE":          "",
		"build/Makefile":   "makefile",
		"scripts/setup.sh": "bash",
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectFileType(name), name)
	}
}
