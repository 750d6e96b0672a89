package browser

import (
	"context"
	"math/rand"
	"time"
)

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RandomDelay waits a random duration between max/2 and max.
func RandomDelay(ctx context.Context, max time.Duration) error {
	if max <= 0 {
		return ctx.Err()
	}
	half := max / 2
	return Sleep(ctx, half+time.Duration(rand.Int63n(int64(max-half)+1)))
}

// HumanScroll scrolls down in steps and then back up a bit
func HumanScroll(ctx context.Context, page Page, steps int, pause time.Duration) error {
	for i := 0; i < steps; i++ {
		if _, err := page.Evaluate(ctx, "window.scrollBy(0, window.innerHeight / 2)", nil); err != nil {
			return err
		}
		if err := RandomDelay(ctx, pause); err != nil {
			return err
		}
	}
	_, err := page.Evaluate(ctx, "window.scrollBy(0, -200)", nil)
	return err
}

// MouseJiggle moves the mouse to random points inside the viewport
func MouseJiggle(ctx context.Context, page Page, moves int, pause time.Duration) error {
	for i := 0; i < moves; i++ {
		x := float64(rand.Intn(viewportWidth-200) + 100)
		y := float64(rand.Intn(viewportHeight-200) + 100)
		if err := page.MouseMove(ctx, x, y, 5); err != nil {
			return err
		}
		if err := RandomDelay(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}
