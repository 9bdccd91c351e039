package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimerState is a copy of one named stage's measurements, all in milliseconds.
type TimerState struct {
	Name           string
	LastDuration   float64
	TotalDuration  float64
	ExecutionCount int64
	MinDuration    float64
	MaxDuration    float64
}

func (t TimerState) AverageDuration() float64 {
	if t.ExecutionCount == 0 {
		return 0
	}
	return t.TotalDuration / float64(t.ExecutionCount)
}

func (t TimerState) String() string {
	return fmt.Sprintf("%s last: %.2fms, avg: %.2fms\n> min: %.2fms, max: %.2fms", t.Name, t.LastDuration, t.AverageDuration(), t.MinDuration, t.MaxDuration)
}

// Timer records durations of named stages. It is not safe for concurrent use.
type Timer struct {
	states     map[string]*TimerState
	timerNames []string
	now        func() time.Time
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
		now:    time.Now,
	}
}

func (t *Timer) Reset() {
	for _, state := range t.states {
		state.LastDuration = 0
		state.TotalDuration = 0
		state.ExecutionCount = 0
		state.MinDuration = math.MaxInt64
		state.MaxDuration = math.MinInt64
	}
}

// States returns the stages in the order they were first started.
func (t *Timer) States() []TimerState {
	result := make([]TimerState, 0, len(t.timerNames))
	for _, name := range t.timerNames {
		result = append(result, *t.states[name])
	}
	return result
}

func (t *Timer) String() string {
	var sb strings.Builder
	for _, name := range t.timerNames {
		sb.WriteString(t.states[name].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Start begins measuring the named stage; call the returned func to stop. It returns the duration in ms.
func (t *Timer) Start(name string) func() float64 {
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			Name:        name,
			MinDuration: math.MaxInt64,
			MaxDuration: math.MinInt64,
		}
		t.states[name] = state
	}
	start := t.now()
	return func() float64 {
		durationInMS := float64(t.now().Sub(start).Microseconds()) / 1000.0
		state.LastDuration = durationInMS
		state.TotalDuration += durationInMS
		state.ExecutionCount++
		if durationInMS < state.MinDuration {
			state.MinDuration = durationInMS
		}
		if durationInMS > state.MaxDuration {
			state.MaxDuration = durationInMS
		}
		return durationInMS
	}
}
