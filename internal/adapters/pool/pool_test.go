package pool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/retainiq/churn/internal/adapters/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPool_Run(t *testing.T) {
	Convey("Given a pool with a few workers", t, func() {
		p := pool.New(pool.WithWorkers(4))

		Convey("When running index-addressed work", func() {
			results := make([]int, 100)
			err := p.Run(context.Background(), len(results), func(_ context.Context, i int) error {
				results[i] = i * 2
				return nil
			})

			Convey("Then every index ran exactly once, results in place", func() {
				So(err, ShouldBeNil)
				for i, v := range results {
					So(v, ShouldEqual, i*2)
				}
			})
		})

		Convey("When a work item fails", func() {
			boom := errors.New("boom")
			var ran int64
			err := p.Run(context.Background(), 1000, func(_ context.Context, i int) error {
				atomic.AddInt64(&ran, 1)
				if i == 5 {
					return boom
				}
				return nil
			})

			Convey("Then the error surfaces and remaining work is cut short", func() {
				So(err, ShouldEqual, boom)
				So(atomic.LoadInt64(&ran), ShouldBeLessThan, 1000)
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := p.Run(ctx, 10, func(_ context.Context, _ int) error { return nil })

			Convey("Then Run reports the cancellation", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When there is no work", func() {
			So(p.Run(context.Background(), 0, nil), ShouldBeNil)
		})
	})
}
