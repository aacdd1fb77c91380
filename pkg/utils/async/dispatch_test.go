package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type ctxKey struct{}

func TestDispatch(t *testing.T) {
	t.Run("runs handler with detached context", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "request"))
		done := make(chan error, 1)

		async.Dispatch(parent, func(ctx context.Context) error {
			cancel()
			time.Sleep(10 * time.Millisecond)
			done <- ctx.Err()
			return nil
		})

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}
	})

	t.Run("recovers from panic and error", func(t *testing.T) {
		called := make(chan struct{}, 2)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			called <- struct{}{}
			panic("boom")
		})
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			called <- struct{}{}
			return goerr.New("failed")
		})

		for range 2 {
			select {
			case <-called:
			case <-time.After(time.Second):
				t.Fatal("handler was not called")
			}
		}
	})
}
