package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// FolderNode is one node of the navigation forest. Children stays nil on
// leaves so the rendered JSON omits the key entirely; the tree widget keys
// its expand affordance on the presence of "children".
type FolderNode struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Children []*FolderNode `json:"children,omitempty"`
}

// BuildFolderTree converts a flat list of folder cards into a nested forest.
// A card whose parent is null or absent from the input becomes a root; all
// others attach to their parent in input order. Cards that are unreachable
// from any root (self-references and multi-level parent cycles) are a
// structural error, not silently dropped.
func BuildFolderTree(folders []*Card) ([]*FolderNode, error) {
	nodes := make(map[uuid.UUID]*FolderNode, len(folders))
	for _, f := range folders {
		// Duplicate ids collapse last-seen-wins into the lookup.
		nodes[f.ID] = &FolderNode{ID: f.ID, Name: f.Title}
	}

	var roots []*FolderNode
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentFolder == nil {
			roots = append(roots, node)
			continue
		}
		if *f.ParentFolder == f.ID {
			return nil, fmt.Errorf("folder %s: %w", f.ID, ErrFolderCycle)
		}
		parent, exists := nodes[*f.ParentFolder]
		if !exists {
			// Orphan: parent not in the set, surface at the top level.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Anything not reachable from a root sits on a parent cycle.
	visited := make(map[uuid.UUID]bool, len(nodes))
	var walk func(n *FolderNode)
	walk = func(n *FolderNode) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	if len(visited) != len(nodes) {
		for id := range nodes {
			if !visited[id] {
				return nil, fmt.Errorf("folder %s: %w", id, ErrFolderCycle)
			}
		}
	}

	return roots, nil
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(forest []*FolderNode) int {
	count := 0
	for _, n := range forest {
		count += 1 + CountNodes(n.Children)
	}
	return count
}

// FolderPath walks parent references from the given folder up to its root and
// returns the breadcrumb top-down. The lookup map must contain every folder
// that can appear on the path. A revisited id means a parent cycle.
func FolderPath(byID map[uuid.UUID]*Card, id uuid.UUID) ([]*Card, error) {
	var reversed []*Card
	seen := make(map[uuid.UUID]bool)
	for current, ok := byID[id]; ok; current, ok = byID[*current.ParentFolder] {
		if seen[current.ID] {
			return nil, fmt.Errorf("folder %s: %w", current.ID, ErrFolderCycle)
		}
		seen[current.ID] = true
		reversed = append(reversed, current)
		if current.ParentFolder == nil {
			break
		}
	}
	if len(reversed) == 0 {
		return nil, ErrFolderNotFound
	}

	path := make([]*Card, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path, nil
}
