package server

import (
	"testing"
	"time"
)

func TestFramesElapsedAccumulation(t *testing.T) {
	frame := tickInterval

	steps, rem := framesElapsed(frame/2, frame)
	if steps != 0 || rem != frame/2 {
		t.Fatalf("half frame: steps=%d rem=%v, want 0 steps and kept remainder", steps, rem)
	}

	steps, rem = framesElapsed(frame, frame)
	if steps != 1 || rem != 0 {
		t.Fatalf("exact frame: steps=%d rem=%v, want 1/0", steps, rem)
	}

	steps, rem = framesElapsed(2*frame+frame/2, frame)
	if steps != 2 || rem != frame/2 {
		t.Fatalf("jittered frames: steps=%d rem=%v, want 2 and half-frame remainder", steps, rem)
	}
}

func TestFramesElapsedCapsCatchUp(t *testing.T) {
	frame := tickInterval
	steps, rem := framesElapsed(100*frame, frame)
	if steps != 5 {
		t.Fatalf("catch-up steps = %d, want cap at 5", steps)
	}
	if rem != 0 {
		t.Fatalf("catch-up remainder = %v, want backlog dropped", rem)
	}

	if steps, _ := framesElapsed(time.Second, 0); steps != 0 {
		t.Fatalf("zero frame interval must not step")
	}
}
