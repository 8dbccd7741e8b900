// Package techstack infers languages and frameworks from a repository
// file listing. Detection is a pure function over the listing: extensions
// map to languages through a fixed table, and a small set of marker files
// (manifests and framework configs) is inspected for framework hints. No
// network calls; the same listing always yields the same result.
package techstack

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sakif/codescribe/internal/model"
)

// File is one node of a repository listing as provided by clients (the
// shape the GitHub contents API returns, possibly nested under Children by
// the frontend). Content is optional and only consulted for marker files.
type File struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"` // "file" or "dir"
	Content  string `json:"content,omitempty"`
	Children []File `json:"children,omitempty"`
}

// extensionToLanguage is the fixed extension table.
var extensionToLanguage = map[string]string{
	"js":  "JavaScript",
	"jsx": "JavaScript (React)",
	"ts":  "TypeScript",
	"tsx": "TypeScript (React)",
	"vue": "Vue.js",
	"cpp": "C++",
	"c":   "C",
	"java": "Java",
	"py":  "Python",
	"rb":  "Ruby",
	"php": "PHP",
	"sol": "Solidity",
	"go":  "Go",
	"rs":  "Rust",
}

// nodeDependencies is the subset of a package.json we care about.
type nodeDependencies struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Detect walks the listing and returns the detected stack. Output slices
// are sorted so detection is deterministic.
func Detect(files []File) model.TechStack {
	languages := map[string]bool{}
	frameworks := map[string]bool{}

	var walk func(f File)
	walk = func(f File) {
		if f.Type == "file" {
			if lang, ok := extensionToLanguage[extension(f.Name)]; ok {
				languages[lang] = true
			}
			detectFramework(f, frameworks)
		}
		for _, child := range f.Children {
			walk(child)
		}
	}
	for _, f := range files {
		walk(f)
	}

	return model.TechStack{
		Languages:  sortedKeys(languages),
		Frameworks: sortedKeys(frameworks),
	}
}

// DetectFromJSON unmarshals a raw listing (as sent in a request body) and
// runs Detect on it.
func DetectFromJSON(raw json.RawMessage) (model.TechStack, error) {
	var files []File
	if err := json.Unmarshal(raw, &files); err != nil {
		return model.TechStack{}, fmt.Errorf("techstack: decoding file listing: %w", err)
	}
	return Detect(files), nil
}

// detectFramework inspects marker filenames. Only package.json requires
// reading content; the other markers imply their framework by existing.
func detectFramework(f File, frameworks map[string]bool) {
	switch strings.ToLower(f.Name) {
	case "package.json":
		for _, dep := range nodeDependencyNames(f.Content) {
			switch dep {
			case "react":
				frameworks["React.js"] = true
			case "angular":
				frameworks["Angular"] = true
			case "vue":
				frameworks["Vue.js"] = true
			case "next":
				frameworks["Next.js"] = true
			case "svelte":
				frameworks["Svelte"] = true
			}
		}
	case "pom.xml":
		frameworks["Spring Boot"] = true
	case "angular.json":
		frameworks["Angular"] = true
	case "next.config.js":
		frameworks["Next.js"] = true
	case "svelte.config.js":
		frameworks["Svelte"] = true
	}
}

// nodeDependencyNames parses a package.json body and returns the union of
// dependencies and devDependencies. Malformed or absent content yields nil
// — detection is best-effort, never an error.
func nodeDependencyNames(content string) []string {
	if content == "" {
		return nil
	}
	var pkg nodeDependencies
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil
	}
	names := make([]string, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		names = append(names, name)
	}
	for name := range pkg.DevDependencies {
		names = append(names, name)
	}
	return names
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
