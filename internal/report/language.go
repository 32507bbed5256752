package report

import (
	"path"
	"strings"
)

// languages maps file extensions to fenced-code-block language identifiers.
var languages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".tsx":   "tsx",
	".jsx":   "jsx",
	".java":  "java",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".rs":    "rust",
	".go":    "go",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".swift": "swift",
	".kt":    "kotlin",
	".sh":    "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".md":    "markdown",
	".tf":    "hcl",
}

// LanguageFor returns the syntax-highlighting identifier for a path, or ""
// when the extension is unknown.
func LanguageFor(p string) string {
	return languages[strings.ToLower(path.Ext(p))]
}
