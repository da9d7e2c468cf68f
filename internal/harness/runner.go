package harness

import (
	"context"
	"sync"
)

// Summary counts reports by outcome.
type Summary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Summarize counts passed and failed reports.
func Summarize(reports []Report) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// RunAll checks every case with at most workers cases in flight.
// Reports are returned in case order. A failing case does not stop the
// others.
func (c *Checker) RunAll(ctx context.Context, cases []Case, workers int) []Report {
	if workers < 1 {
		workers = 1
	}
	reports := make([]Report, len(cases))

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers && w < len(cases); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				reports[i] = c.Check(ctx, cases[i])
			}
		}()
	}
	for i := range cases {
		next <- i
	}
	close(next)
	wg.Wait()

	return reports
}
