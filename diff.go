package anglify

// NodeDiff is the difference between two versions of a document's text nodes.
type NodeDiff struct {
	Added     []TextNode   // Nodes only in the current version
	Removed   []TextNode   // Nodes only in the previous version
	Unchanged []TextNode   // Nodes present in both
	Modified  []NodeChange // Nodes whose text changed in place
}

// NodeChange pairs a node with the version it replaced.
type NodeChange struct {
	Previous TextNode
	Current  TextNode
}

// DiffStats summarizes a NodeDiff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary counts for the diff.
func (d *NodeDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges reports whether the versions differ.
func (d *NodeDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// Pending returns the current-version nodes that are new or modified, in
// document order of discovery.
func (d *NodeDiff) Pending() []TextNode {
	out := make([]TextNode, 0, len(d.Added)+len(d.Modified))
	out = append(out, d.Added...)
	for _, m := range d.Modified {
		out = append(out, m.Current)
	}
	return out
}

// DiffNodes compares two node lists by text hash. Order follows the input
// lists: Unchanged and Removed follow previous, Added follows current.
func DiffNodes(previous, current []TextNode) *NodeDiff {
	d := &NodeDiff{}

	prevHashes := make(map[string]bool, len(previous))
	for _, n := range previous {
		prevHashes[n.Hash] = true
	}
	curHashes := make(map[string]bool, len(current))
	for _, n := range current {
		curHashes[n.Hash] = true
	}

	for _, n := range previous {
		if curHashes[n.Hash] {
			d.Unchanged = append(d.Unchanged, n)
		} else {
			d.Removed = append(d.Removed, n)
		}
	}
	for _, n := range current {
		if !prevHashes[n.Hash] {
			d.Added = append(d.Added, n)
		}
	}

	return d
}

// DiffNodesInPlace is DiffNodes that also pairs a removed node with an added
// one at the same position (same ID) as a modification.
func DiffNodesInPlace(previous, current []TextNode) *NodeDiff {
	d := DiffNodes(previous, current)
	if len(d.Added) == 0 || len(d.Removed) == 0 {
		return d
	}

	removedByID := make(map[string]int, len(d.Removed))
	for i, n := range d.Removed {
		if n.ID != "" {
			removedByID[n.ID] = i
		}
	}

	matched := make(map[int]bool)
	var added []TextNode
	for _, n := range d.Added {
		i, ok := removedByID[n.ID]
		if !ok || n.ID == "" || matched[i] {
			added = append(added, n)
			continue
		}
		matched[i] = true
		d.Modified = append(d.Modified, NodeChange{Previous: d.Removed[i], Current: n})
	}

	var removed []TextNode
	for i, n := range d.Removed {
		if !matched[i] {
			removed = append(removed, n)
		}
	}

	d.Added = added
	d.Removed = removed
	return d
}
