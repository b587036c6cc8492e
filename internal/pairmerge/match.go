package pairmerge

// MatchResult splits the filenames of two FileSets into three disjoint,
// sorted groups.
type MatchResult struct {
	Matched []string `json:"matched" yaml:"matched"`
	OnlyA   []string `json:"only_a" yaml:"only_a"`
	OnlyB   []string `json:"only_b" yaml:"only_b"`
}

// Match computes A ∩ B, A − B and B − A over the filenames of a and b.
func Match(a, b FileSet) MatchResult {
	var m MatchResult
	for _, name := range a.Names() {
		if _, ok := b[name]; ok {
			m.Matched = append(m.Matched, name)
		} else {
			m.OnlyA = append(m.OnlyA, name)
		}
	}
	for _, name := range b.Names() {
		if _, ok := a[name]; !ok {
			m.OnlyB = append(m.OnlyB, name)
		}
	}
	return m
}
