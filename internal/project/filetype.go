package project

import (
	"path"
	"strings"
)

var fileTypesByName = map[string]string{
	"makefile":       "makefile",
	"gnumakefile":    "makefile",
	"dockerfile":     "dockerfile",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"procfile":       "procfile",
	"cmakelists.txt": "cmake",
}

var fileTypesByExt = map[string]string{
	".go":       "go",
	".js":       "javascript",
	".jsx":      "javascript",
	".mjs":      "javascript",
	".cjs":      "javascript",
	".ts":       "typescript",
	".tsx":      "typescript",
	".py":       "python",
	".rs":       "rust",
	".rb":       "ruby",
	".java":     "java",
	".kt":       "kotlin",
	".c":        "c",
	".cpp":      "cpp",
	".cc":       "cpp",
	".h":        "c",
	".hpp":      "cpp",
	".cs":       "csharp",
	".swift":    "swift",
	".php":      "php",
	".lua":      "lua",
	".sh":       "bash",
	".bash":     "bash",
	".zsh":      "bash",
	".sql":      "sql",
	".sol":      "solidity",
	".md":       "markdown",
	".markdown": "markdown",
	".txt":      "text",
	".yaml":     "yaml",
	".yml":      "yaml",
	".json":     "json",
	".toml":     "toml",
	".xml":      "xml",
	".html":     "html",
	".htm":      "html",
	".css":      "css",
	".scss":     "scss",
	".vue":      "vue",
	".svelte":   "svelte",
	".proto":    "protobuf",
	".graphql":  "graphql",
	".tf":       "hcl",
	".hcl":      "hcl",
}

// DetectFileType returns a language hint for a file name, used as the
// fence label when previewing generated files.
func DetectFileType(name string) string {
	base := strings.ToLower(path.Base(name))
	if t, ok := fileTypesByName[base]; ok {
		return t
	}

	ext := path.Ext(base)
	if t, ok := fileTypesByExt[ext]; ok {
		return t
	}
	return strings.TrimPrefix(ext, ".")
}
