package bulk

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Failure struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

type Result struct {
	Action    Action    `json:"action"`
	Requested int       `json:"requested"`
	Succeeded int       `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

// Execute calls fn once per id, at most limit at a time (limit <= 0 means no
// limit), and returns after every call has returned. A failing call neither
// stops the others nor undoes the ones already done. The batch ignores
// cancellation of ctx once started.
func Execute(ctx context.Context, action Action, ids []uint, limit int, fn func(ctx context.Context, id uint) error) Result {
	ctx = context.WithoutCancel(ctx)

	errs := make([]error, len(ids))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Action: action, Requested: len(ids), Failed: []Failure{}}
	for i, err := range errs {
		if err != nil {
			res.Failed = append(res.Failed, Failure{ID: ids[i], Error: err.Error()})
			continue
		}
		res.Succeeded++
	}
	return res
}
