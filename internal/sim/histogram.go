package sim

import "slices"

// Histogram tallies the outcomes of a sweep: winning games by number of
// guesses, everything else as a failure.
type Histogram struct {
	Wins     map[int]int `json:"wins"`
	Failures int         `json:"failures"`
	Total    int         `json:"total"`
}

func newHistogram() Histogram { return Histogram{Wins: map[int]int{}} }

func (h *Histogram) addWin(guesses int) {
	h.Wins[guesses]++
	h.Total++
}

func (h *Histogram) addFailure() {
	h.Failures++
	h.Total++
}

// Won is the number of solved games.
func (h Histogram) Won() int {
	n := 0
	for _, c := range h.Wins {
		n += c
	}
	return n
}

// SuccessRate is the fraction of games won. Zero for an empty histogram.
func (h Histogram) SuccessRate() float64 {
	if h.Total == 0 {
		return 0
	}
	return float64(h.Won()) / float64(h.Total)
}

// Speed is the sum of guesses over winning games divided by the total
// number of games played.
func (h Histogram) Speed() float64 {
	if h.Total == 0 {
		return 0
	}
	sum := 0
	for k, c := range h.Wins {
		sum += k * c
	}
	return float64(sum) / float64(h.Total)
}

// Quality combines success rate and speed: (1-success)*(height-speed)/height.
// Experimental.
func (h Histogram) Quality(height int) float64 {
	if height <= 0 {
		return 0
	}
	return (1 - h.SuccessRate()) * (float64(height) - h.Speed()) / float64(height)
}

// Buckets returns the guess counts that have at least one win, ascending.
func (h Histogram) Buckets() []int {
	out := make([]int, 0, len(h.Wins))
	for k := range h.Wins {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
