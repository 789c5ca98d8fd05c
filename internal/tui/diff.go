package tui

// DiffOp represents the type of a diff operation
type DiffOp int

const (
	DiffEqual     DiffOp = iota
	DiffInsert           // line exists only in the edited document
	DiffDelete           // line exists only in the original document
	DiffSeparator        // elided unchanged lines
)

// DiffLine pairs an operation with its text content
type DiffLine struct {
	Op   DiffOp
	Text string
}

// maxLCSLines bounds the changed core handed to the quadratic LCS table
const maxLCSLines = 2000

// ComputeDiff computes a line-level diff between the original and edited
// serializations. Common leading and trailing lines are matched first, the
// rest goes through LCS; a core too large for the table is reported as a
// block delete followed by a block insert.
func ComputeDiff(oldLines, newLines []string) []DiffLine {
	m, n := len(oldLines), len(newLines)

	prefix := 0
	for prefix < m && prefix < n && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < m-prefix && suffix < n-prefix && oldLines[m-1-suffix] == newLines[n-1-suffix] {
		suffix++
	}

	result := make([]DiffLine, 0, m+n-prefix-suffix)
	for _, l := range oldLines[:prefix] {
		result = append(result, DiffLine{Op: DiffEqual, Text: l})
	}

	oldCore, newCore := oldLines[prefix:m-suffix], newLines[prefix:n-suffix]
	if len(oldCore)+len(newCore) <= maxLCSLines {
		result = append(result, lcs(oldCore, newCore)...)
	} else {
		for _, l := range oldCore {
			result = append(result, DiffLine{Op: DiffDelete, Text: l})
		}
		for _, l := range newCore {
			result = append(result, DiffLine{Op: DiffInsert, Text: l})
		}
	}

	for _, l := range oldLines[m-suffix:] {
		result = append(result, DiffLine{Op: DiffEqual, Text: l})
	}
	return result
}

// lcs walks the longest-common-subsequence table forward so deletes come
// before inserts within a changed run
func lcs(oldLines, newLines []string) []DiffLine {
	m, n := len(oldLines), len(newLines)

	// table[i][j] is the LCS length of oldLines[i:] and newLines[j:]
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var result []DiffLine
	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && oldLines[i] == newLines[j]:
			result = append(result, DiffLine{Op: DiffEqual, Text: oldLines[i]})
			i++
			j++
		case i < m && (j == n || table[i+1][j] >= table[i][j+1]):
			result = append(result, DiffLine{Op: DiffDelete, Text: oldLines[i]})
			i++
		default:
			result = append(result, DiffLine{Op: DiffInsert, Text: newLines[j]})
			j++
		}
	}
	return result
}

// DiffStats counts inserted and deleted lines
func DiffStats(diff []DiffLine) (inserted, deleted int) {
	for _, d := range diff {
		switch d.Op {
		case DiffInsert:
			inserted++
		case DiffDelete:
			deleted++
		}
	}
	return inserted, deleted
}

// ContextDiff collapses runs of DiffEqual lines, keeping only contextSize
// lines around each change. Collapsed regions are replaced by a single
// DiffSeparator entry. If nothing changed it returns nil.
func ContextDiff(diff []DiffLine, contextSize int) []DiffLine {
	if contextSize < 0 {
		contextSize = 3
	}

	keep := make([]bool, len(diff))
	changed := false
	for i, d := range diff {
		if d.Op == DiffEqual {
			continue
		}
		changed = true
		for k := max(0, i-contextSize); k <= min(len(diff)-1, i+contextSize); k++ {
			keep[k] = true
		}
	}
	if !changed {
		return nil
	}

	var result []DiffLine
	gap := false
	for i, d := range diff {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			result = append(result, DiffLine{Op: DiffSeparator, Text: "@@"})
			gap = false
		}
		result = append(result, d)
	}
	if gap {
		result = append(result, DiffLine{Op: DiffSeparator, Text: "@@"})
	}
	return result
}
