package domain

import (
	"math"
	"strconv"
	"strings"
)

const NotAvailable = "N/A"

// Average is the mean of the numeric votes, one decimal place.
// Non-numeric cards are skipped; no numeric votes gives "N/A".
func Average(votes []Vote) string {
	var sum float64
	n := 0
	for _, v := range votes {
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(sum/float64(n), 'f', 1, 64)
}

// MostVoted returns the most frequent vote; ties are joined with ", "
// in first-seen order.
func MostVoted(votes []Vote) string {
	if len(votes) == 0 {
		return NotAvailable
	}
	counts := make(map[Vote]int, len(votes))
	order := make([]Vote, 0, len(votes))
	max := 0
	for _, v := range votes {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		if counts[v] > max {
			max = counts[v]
		}
	}
	top := make([]string, 0, len(order))
	for _, v := range order {
		if counts[v] == max {
			top = append(top, string(v))
		}
	}
	return strings.Join(top, ", ")
}

type CardCount struct {
	Vote  Vote `json:"vote"`
	Count int  `json:"count"`
}

// Distribution counts votes per card in deck order, leaving out unused cards.
func Distribution(votes []Vote) []CardCount {
	counts := make(map[Vote]int, len(votes))
	for _, v := range votes {
		counts[v]++
	}
	out := make([]CardCount, 0, len(counts))
	for _, c := range VoteCards {
		if n := counts[c]; n > 0 {
			out = append(out, CardCount{Vote: c, Count: n})
		}
	}
	return out
}

type Stats struct {
	Average      string      `json:"average"`
	MostVoted    string      `json:"mostVoted"`
	Distribution []CardCount `json:"distribution"`
	VoteCount    int         `json:"voteCount"`
}

// Summarize computes Stats for a revealed room; hidden rooms yield nil.
func Summarize(r *Room) *Stats {
	if r == nil || !r.Revealed {
		return nil
	}
	votes := r.Votes()
	return &Stats{
		Average:      Average(votes),
		MostVoted:    MostVoted(votes),
		Distribution: Distribution(votes),
		VoteCount:    len(votes),
	}
}
