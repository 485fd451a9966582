package metrics

import (
	"fmt"
	"sort"
)

// Frequency counts how often each number in [1, max] has been drawn.
type Frequency struct {
	max    int
	counts []int
	draws  int
	total  int
}

func NewFrequency(max int) *Frequency {
	return &Frequency{
		max:    max,
		counts: make([]int, max+1),
	}
}

// Observe tallies one draw. Numbers outside [1, max] are an error and leave
// the counts untouched.
func (f *Frequency) Observe(numbers []int) error {
	for _, n := range numbers {
		if n < 1 || n > f.max {
			return fmt.Errorf("metrics: number %d outside 1..%d", n, f.max)
		}
	}
	for _, n := range numbers {
		f.counts[n]++
	}
	f.draws++
	f.total += len(numbers)
	return nil
}

func (f *Frequency) Max() int   { return f.max }
func (f *Frequency) Draws() int { return f.draws }

func (f *Frequency) Count(n int) int {
	if n < 1 || n > f.max {
		return 0
	}
	return f.counts[n]
}

// Counts returns the tally indexed from 0, so Counts()[0] is number 1.
func (f *Frequency) Counts() []float64 {
	out := make([]float64, f.max)
	for n := 1; n <= f.max; n++ {
		out[n-1] = float64(f.counts[n])
	}
	return out
}

// Expected is the count each number would have under a uniform draw.
func (f *Frequency) Expected() float64 {
	if f.max == 0 {
		return 0
	}
	return float64(f.total) / float64(f.max)
}

// ChiSquare is Pearson's statistic against the uniform distribution, with
// max-1 degrees of freedom.
func (f *Frequency) ChiSquare() float64 {
	exp := f.Expected()
	if exp == 0 {
		return 0
	}
	chi := 0.0
	for n := 1; n <= f.max; n++ {
		d := float64(f.counts[n]) - exp
		chi += d * d / exp
	}
	return chi
}

type NumberCount struct {
	Number int
	Count  int
}

// Top returns the k most drawn numbers, ties broken by the smaller number.
func (f *Frequency) Top(k int) []NumberCount {
	all := make([]NumberCount, 0, f.max)
	for n := 1; n <= f.max; n++ {
		all = append(all, NumberCount{Number: n, Count: f.counts[n]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count == all[j].Count {
			return all[i].Number < all[j].Number
		}
		return all[i].Count > all[j].Count
	})
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

func (f *Frequency) Reset() {
	f.counts = make([]int, f.max+1)
	f.draws = 0
	f.total = 0
}
