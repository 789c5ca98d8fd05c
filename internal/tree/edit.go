package tree

// Element names with special meaning to the edit operations
const (
	RowTag       = "tr"
	BoldTag      = "b"
	ListItemTag  = "li"
	ParagraphTag = "p"
)

// listTags are the containers whose direct list items become paragraphs on removal
var listTags = map[string]bool{
	"ol": true,
	"ul": true,
}

// ReplaceTag relabels every node named oldName as newName. Matching is by
// label only, so a text leaf whose whole content is oldName changes too.
// An invalid newName (see ValidName) leaves the tree unchanged.
func (t *Tree) ReplaceTag(oldName, newName string) {
	if t.Empty() || oldName == "" || !ValidName(newName) {
		return
	}
	replaceTag(t.root.FirstChild, oldName, newName)
}

func replaceTag(n *Node, oldName, newName string) {
	for ; n != nil; n = n.NextSibling {
		if n.Label == oldName {
			n.Label = newName
		}
		replaceTag(n.FirstChild, oldName, newName)
	}
}

// BoldRow wraps the text content of every cell in the given table row with a
// bold element. Rows are numbered from 1 in document order across the whole
// document; a row number outside that range leaves the tree unchanged.
func (t *Tree) BoldRow(row int) {
	if t.Empty() || row <= 0 {
		return
	}
	count := 0
	findRow(t.root.FirstChild, row, &count)
}

// findRow walks in document order and bolds the row once the running count
// reaches target. It reports whether the row was found so the walk can stop.
func findRow(n *Node, target int, count *int) bool {
	for ; n != nil; n = n.NextSibling {
		if n.IsLeaf() {
			continue
		}
		if n.Label == RowTag {
			*count++
			if *count == target {
				boldCells(n)
				return true
			}
		}
		if findRow(n.FirstChild, target, count) {
			return true
		}
	}
	return false
}

func boldCells(row *Node) {
	for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.IsLeaf() || !cell.FirstChild.IsLeaf() {
			continue
		}
		cell.FirstChild = &Node{Label: BoldTag, FirstChild: cell.FirstChild}
	}
}

// RemoveTag removes every node named name below the root. Each removed node is
// replaced in its chain by its own children followed by its former next
// siblings. Removing an ol or ul also turns its direct li children into p.
func (t *Tree) RemoveTag(name string) {
	if t.Empty() || name == "" {
		return
	}
	removeTag(&t.root.FirstChild, name)
}

// removeTag works on link slots (a FirstChild or NextSibling field) so a
// splice is a single pointer store. After a splice the same slot is checked
// again, which catches a matching child that has just moved into it.
func removeTag(link **Node, name string) {
	for *link != nil {
		n := *link
		if n.Label != name {
			removeTag(&n.FirstChild, name)
			link = &n.NextSibling
			continue
		}

		if listTags[name] {
			promoteListItems(n.FirstChild)
		}
		if n.FirstChild == nil {
			*link = n.NextSibling
			continue
		}
		n.FirstChild.LastSibling().NextSibling = n.NextSibling
		*link = n.FirstChild
	}
}

func promoteListItems(n *Node) {
	for ; n != nil; n = n.NextSibling {
		if n.Label == ListItemTag {
			n.Label = ParagraphTag
		}
	}
}
