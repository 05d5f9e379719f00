package fib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func TestSetLogger_schedulerEvents(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf)),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger())
	defer SetLogger(nil)

	BlockOn(func() any {
		var parked TaskID
		h := Spawn(func() any {
			parked = Current()
			Park(CauseBarrier)
			return nil
		})
		YieldNow()
		Wake(parked)
		h.Join()
		return nil
	})

	out := buf.String()
	for _, want := range [...]string{
		`task spawned`,
		`task blocked`,
		`"cause":"barrier"`,
		`task woken`,
		`task finished`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf(`log output missing %q: %s`, want, out)
		}
	}
}

func TestSetLogger_abandonmentLoggedAtError(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf)),
		stumpy.L.WithLevel(logiface.LevelError),
	).Logger())
	defer SetLogger(nil)

	BlockOn(func() any {
		Spawn(func() any {
			Park(CauseLock)
			return nil
		})
		return nil
	})

	out := buf.String()
	if !strings.Contains(out, `abandoning blocked tasks`) {
		t.Fatalf(`log output missing abandonment: %s`, out)
	}
	if !strings.Contains(out, `"blocked":1`) {
		t.Fatalf(`log output missing blocked count: %s`, out)
	}
}

func TestSetLogger_nilDisablesLogging(t *testing.T) {
	SetLogger(nil)
	// Must not panic anywhere along the builder chain.
	BlockOn(func() any {
		h := Spawn(func() any { YieldNow(); return nil })
		h.Join()
		return nil
	})
}
