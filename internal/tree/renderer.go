// Package tree renders a textual diagram of a directory's structure.
package tree

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/temirov/llmstxt/internal/filter"
	"github.com/temirov/llmstxt/internal/utils"
)

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchExtension = "│   "
	lastExtension   = "    "
)

// Node is one surviving directory entry.
type Node struct {
	Name        string
	Path        string
	IsDirectory bool
}

// Renderer produces tree diagrams pruned by a path filter.
type Renderer struct {
	pathFilter    *filter.Filter
	baseDirectory string
}

// NewRenderer constructs a Renderer. Paths are handed to pathFilter relative to baseDirectory.
func NewRenderer(pathFilter *filter.Filter, baseDirectory string) *Renderer {
	return &Renderer{pathFilter: pathFilter, baseDirectory: baseDirectory}
}

// Render returns the diagram lines for the children of rootPath. The root itself is not
// part of the output. Unreadable directories render without children.
func (renderer *Renderer) Render(rootPath string) []string {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil
	}
	var lines []string
	renderer.renderDirectory(absoluteRootPath, "", &lines)
	return lines
}

func (renderer *Renderer) renderDirectory(directoryPath string, prefix string, lines *[]string) {
	children := renderer.Children(directoryPath)
	for index, child := range children {
		connector := branchConnector
		extension := branchExtension
		if index == len(children)-1 {
			connector = lastConnector
			extension = lastExtension
		}
		*lines = append(*lines, prefix+connector+child.Name)
		if child.IsDirectory {
			renderer.renderDirectory(child.Path, prefix+extension, lines)
		}
	}
}

// Children lists the entries of directoryPath that survive the filter, sorted by name.
func (renderer *Renderer) Children(directoryPath string) []Node {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil
	}
	sort.Slice(directoryEntries, func(left, right int) bool {
		return directoryEntries[left].Name() < directoryEntries[right].Name()
	})

	var nodes []Node
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, renderer.baseDirectory)
		if renderer.pathFilter != nil && renderer.pathFilter.IsExcluded(relativeChildPath, directoryEntry.IsDir()) {
			continue
		}
		nodes = append(nodes, Node{
			Name:        directoryEntry.Name(),
			Path:        childPath,
			IsDirectory: directoryEntry.IsDir(),
		})
	}
	return nodes
}
