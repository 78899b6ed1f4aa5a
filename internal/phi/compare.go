package phi

import "math"

// #region compare
// Labeled pairs a substrate label with its Φ result.
type Labeled struct {
	Label  string
	Result Result
}

// Comparison ranks Φ across substrates.
type Comparison struct {
	Entries []Labeled
	Winner  string
}

// Compare picks the substrate with the largest Φ; ties go to the earlier entry.
func Compare(entries ...Labeled) Comparison {
	c := Comparison{Entries: entries}
	best := math.Inf(-1)
	for _, e := range entries {
		if e.Result.Phi > best {
			best = e.Result.Phi
			c.Winner = e.Label
		}
	}
	return c
}

// Ratio returns Φ(num)/Φ(den), +Inf when the denominator is zero and NaN when a label is missing.
func (c Comparison) Ratio(num, den string) float64 {
	var a, b *Result
	for i := range c.Entries {
		switch c.Entries[i].Label {
		case num:
			a = &c.Entries[i].Result
		case den:
			b = &c.Entries[i].Result
		}
	}
	if a == nil || b == nil {
		return math.NaN()
	}
	if b.Phi <= 0 {
		return math.Inf(1)
	}
	return a.Phi / b.Phi
}

// #endregion compare
