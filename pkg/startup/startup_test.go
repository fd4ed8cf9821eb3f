package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartup_StartsParentsFirstAndStopsInReverse(t *testing.T) {
	var events []string
	record := func(e string) func(context.Context) error {
		return func(context.Context) error {
			events = append(events, e)
			return nil
		}
	}

	s := NewStartup(getTestLogger(), 1)
	s.AddDependency(Func{Name: "consumer", Requires: []string{"database"}, OnStart: record("start consumer"), OnStop: record("stop consumer")})
	s.AddDependency(Func{Name: "database", OnStart: record("start database"), OnStop: record("stop database")})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StatusStarted, s.Status("consumer"))
	assert.Equal(t, StatusStarted, s.Status("database"))

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"start database", "start consumer", "stop consumer", "stop database"}, events)
}

func TestStartup_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	s := NewStartup(getTestLogger(), 3)
	s.unit = time.Millisecond
	s.AddDependency(Func{Name: "flaky", OnStart: func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	}})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestStartup_GivesUpAfterMaxAttempts(t *testing.T) {
	s := NewStartup(getTestLogger(), 2)
	s.unit = time.Millisecond
	s.AddDependency(Func{Name: "broken", OnStart: func(context.Context) error { return errors.New("down") }})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, StatusFailed, s.Status("broken"))
}

func TestStartup_UnknownDependency(t *testing.T) {
	s := NewStartup(getTestLogger(), 1)
	s.AddDependency(Func{Name: "api", Requires: []string{"missing"}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown startup dependency")
}
