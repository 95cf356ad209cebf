package session_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/session"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrB(v bool) *bool       { return &v }

type fixture struct {
	workout *domain.Workout
	a, b, c domain.WorkoutExercise
	block   primitive.ObjectID
}

// newFixture builds one block holding superset {A, B} with 3 rounds and a single exercise C.
func newFixture() fixture {
	blockID := primitive.NewObjectID()
	a := domain.WorkoutExercise{ID: primitive.NewObjectID(), BlockID: blockID, ExerciseID: primitive.NewObjectID(),
		SupersetID: "s1", SupersetRounds: 3, Sets: 4, Reps: "10", Position: 0}
	b := domain.WorkoutExercise{ID: primitive.NewObjectID(), BlockID: blockID, ExerciseID: primitive.NewObjectID(),
		SupersetID: "s1", Sets: 4, Reps: "12", Position: 1}
	c := domain.WorkoutExercise{ID: primitive.NewObjectID(), BlockID: blockID, ExerciseID: primitive.NewObjectID(),
		Sets: 2, Reps: "8-12", Position: 2}
	w := &domain.Workout{
		ID:   primitive.NewObjectID(),
		Name: "Fuerza A",
		Blocks: []domain.Block{{
			ID:        blockID,
			Name:      "Principal",
			Exercises: []domain.WorkoutExercise{a, b, c},
		}},
	}
	return fixture{workout: w, a: a, b: b, c: c, block: blockID}
}

func newRuntime(t *testing.T, f fixture, writer session.LogWriter, clock *fakeClock) *session.Runtime {
	t.Helper()
	rt, err := session.New(session.Config{
		ClientID: primitive.NewObjectID(),
		DayID:    primitive.NewObjectID(),
		Workout:  f.workout,
		Clock:    clock.Now,
	}, writer)
	require.NoError(t, err)
	return rt
}

func startRunning(t *testing.T, rt *session.Runtime) {
	t.Helper()
	require.NoError(t, rt.Begin())
	blocked, err := rt.SubmitExclusions(domain.Exclusions{Systolic: "120", Diastolic: "80"})
	require.NoError(t, err)
	require.False(t, blocked)
	_, err = rt.SubmitVitals(domain.Vitals{Fatigue: 3, RPEType: domain.RPEVerde})
	require.NoError(t, err)
	_, err = rt.ConfirmSequelae(domain.Sequelae{})
	require.NoError(t, err)
	require.Equal(t, session.PhaseRunning, rt.Phase())
}

func completeSet(t *testing.T, rt *session.Runtime, id primitive.ObjectID, index int) {
	t.Helper()
	_, err := rt.UpdateSet(id, index, session.SetPatch{Reps: ptrI(10), Completed: ptrB(true)})
	require.NoError(t, err)
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    session.Phase
		event   session.Event
		want    session.Phase
		wantErr error
	}{
		{"begin", session.PhaseNotStarted, session.Begin{}, session.PhaseExclusions, nil},
		{"exclusions pass", session.PhaseExclusions, session.ExclusionsSubmitted{}, session.PhaseVitals, nil},
		{"exclusions block", session.PhaseExclusions, session.ExclusionsSubmitted{Blocked: true}, session.PhaseBlocked, nil},
		{"vitals", session.PhaseVitals, session.VitalsSubmitted{}, session.PhaseSequelae, nil},
		{"sequelae starts", session.PhaseSequelae, session.SequelaeConfirmed{}, session.PhaseRunning, nil},
		{"pause", session.PhaseRunning, session.Pause{}, session.PhasePaused, nil},
		{"resume", session.PhasePaused, session.Resume{}, session.PhaseRunning, nil},
		{"finish while paused", session.PhasePaused, session.Finish{}, session.PhaseFinishing, nil},
		{"retry finish", session.PhaseFinishing, session.Finish{}, session.PhaseFinishing, nil},
		{"persist failed stays", session.PhaseFinishing, session.PersistFailed{}, session.PhaseFinishing, nil},
		{"persisted", session.PhaseFinishing, session.Persisted{}, session.PhaseSummary, nil},
		{"dismiss", session.PhaseSummary, session.Dismiss{}, session.PhaseClosed, nil},
		{"cancel blocked", session.PhaseBlocked, session.Cancel{}, session.PhaseClosed, nil},
		{"cancel running", session.PhaseRunning, session.Cancel{}, session.PhaseClosed, nil},
		{"blocked cannot continue", session.PhaseBlocked, session.VitalsSubmitted{}, session.PhaseBlocked, session.ErrSafetyBlocked},
		{"cannot skip screening", session.PhaseNotStarted, session.SequelaeConfirmed{}, session.PhaseNotStarted, session.ErrInvalidTransition},
		{"cannot pause twice", session.PhasePaused, session.Pause{}, session.PhasePaused, session.ErrInvalidTransition},
		{"cannot cancel summary", session.PhaseSummary, session.Cancel{}, session.PhaseSummary, session.ErrInvalidTransition},
		{"closed is final", session.PhaseClosed, session.Begin{}, session.PhaseClosed, session.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := session.Next(tt.from, tt.event)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimer_ExcludesPausedTime(t *testing.T) {
	clock := newClock()
	var timer session.Timer

	assert.Zero(t, timer.Seconds(clock.Now()))

	timer.Start(clock.Now())
	clock.Advance(60 * time.Second)
	timer.Pause(clock.Now())
	clock.Advance(10 * time.Minute)
	assert.Equal(t, 60, timer.Seconds(clock.Now()))

	timer.Resume(clock.Now())
	clock.Advance(5 * time.Second)
	assert.Equal(t, 65, timer.Seconds(clock.Now()))

	timer.Pause(clock.Now())
	clock.Advance(time.Minute)
	timer.Stop(clock.Now())
	clock.Advance(time.Hour)
	assert.Equal(t, 65, timer.Seconds(clock.Now()))
}

func TestDurationMinutes(t *testing.T) {
	for seconds, want := range map[int]int{0: 0, 1: 1, 59: 1, 60: 1, 61: 2, 125: 3, 3600: 60} {
		assert.Equal(t, want, session.DurationMinutes(seconds), "seconds=%d", seconds)
	}
}

func TestRuntime_SupersetRoundProgression(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture()
	rt := newRuntime(t, f, NewMockLogWriter(ctrl), newClock())
	startRunning(t, rt)
	key := session.GroupKey(f.block, "s1")

	_, err := rt.AdvanceRound(key)
	assert.ErrorIs(t, err, session.ErrRoundIncomplete)

	completeSet(t, rt, f.a.ID, 0)
	assert.False(t, rt.View().Groups[0].CanAdvance)
	completeSet(t, rt, f.b.ID, 0)

	g := rt.View().Groups[0]
	assert.True(t, g.CurrentComplete)
	assert.True(t, g.CanAdvance)
	assert.Equal(t, 3, g.Rounds)

	round, err := rt.AdvanceRound(key)
	require.NoError(t, err)
	assert.Equal(t, 1, round)

	for r := 1; r < 3; r++ {
		completeSet(t, rt, f.a.ID, r)
		completeSet(t, rt, f.b.ID, r)
	}
	require.NoError(t, rt.SelectRound(key, 2))
	_, err = rt.AdvanceRound(key)
	assert.ErrorIs(t, err, session.ErrLastRound)

	g = rt.View().Groups[0]
	assert.Equal(t, 3, g.CompletedRounds)
	assert.True(t, g.Complete)
	assert.False(t, g.CanAdvance)

	// superset members expose one slot per round, not per set
	_, err = rt.UpdateSet(f.a.ID, 3, session.SetPatch{Reps: ptrI(5)})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRuntime_FinishAggregatesCompletedSets(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := NewMockLogWriter(ctrl)
	clock := newClock()
	f := newFixture()
	rt := newRuntime(t, f, writer, clock)
	startRunning(t, rt)

	_, err := rt.UpdateSet(f.a.ID, 0, session.SetPatch{Weight: ptrF(20), Reps: ptrI(10), Completed: ptrB(true)})
	require.NoError(t, err)
	// captured but never completed
	_, err = rt.UpdateSet(f.c.ID, 0, session.SetPatch{Weight: ptrF(50), Reps: ptrI(8)})
	require.NoError(t, err)
	clock.Advance(125 * time.Second)

	writer.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dayLog *domain.ClientDayLog, logs []domain.ClientExerciseLog) error {
			assert.Equal(t, 3, dayLog.DurationMinutes)
			assert.Equal(t, 7, dayLog.EffortRating)
			assert.Equal(t, "bien", dayLog.Notes)
			require.NotNil(t, dayLog.Vitals)
			assert.Equal(t, "120", dayLog.Vitals.BPSystolic)
			require.Len(t, logs, 1)
			assert.Equal(t, f.a.ID, logs[0].WorkoutExerciseID)
			assert.Equal(t, 1, logs[0].SetsCompleted)
			assert.Equal(t, "20", logs[0].WeightUsed)
			assert.Equal(t, "10", logs[0].RepsCompleted)
			return nil
		})

	summary, err := rt.Finish(context.Background(), 7, "bien")
	require.NoError(t, err)
	assert.Equal(t, session.PhaseSummary, rt.Phase())
	assert.Equal(t, 1, summary.SetsCompleted)
	assert.Equal(t, 1, summary.ExercisesWorked)
	assert.Equal(t, 3, summary.ExercisesTotal)
	assert.InDelta(t, 200.0, summary.TotalVolume, 0.001)
	assert.Equal(t, 125, summary.DurationSeconds)
	assert.Equal(t, domain.RPEVerde, summary.RPEType)

	require.NoError(t, rt.Dismiss())
	assert.Equal(t, session.PhaseClosed, rt.Phase())
}

func TestRuntime_FinishWithNothingCompletedStillWritesDayLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := NewMockLogWriter(ctrl)
	f := newFixture()
	rt := newRuntime(t, f, writer, newClock())
	startRunning(t, rt)

	writer.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Len(0)).
		Return(nil)

	_, err := rt.Finish(context.Background(), 0, "")
	require.NoError(t, err)
}

func TestRuntime_PersistFailureKeepsFinishingAndRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := NewMockLogWriter(ctrl)
	clock := newClock()
	f := newFixture()
	rt := newRuntime(t, f, writer, clock)
	startRunning(t, rt)
	completeSet(t, rt, f.c.ID, 1)
	clock.Advance(30 * time.Second)

	boom := domain.Persist("save day log", errors.New("connection reset"))
	gomock.InOrder(
		writer.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Len(1)).Return(boom),
		writer.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Len(1)).Return(nil),
	)

	_, err := rt.Finish(context.Background(), 5, "")
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, session.PhaseFinishing, rt.Phase())
	assert.NotEmpty(t, rt.View().LastError)

	// the clock stopped at the first attempt
	clock.Advance(10 * time.Minute)
	_, err = rt.UpdateSet(f.c.ID, 0, session.SetPatch{Reps: ptrI(1)})
	assert.ErrorIs(t, err, session.ErrInvalidTransition)

	summary, err := rt.Finish(context.Background(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, 30, summary.DurationSeconds)
	assert.Equal(t, 1, summary.DurationMinutes)
	assert.Empty(t, rt.View().LastError)
}

func TestRuntime_BlockedScreeningPreventsStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture()
	rt := newRuntime(t, f, NewMockLogWriter(ctrl), newClock())

	require.NoError(t, rt.Begin())
	blocked, err := rt.SubmitExclusions(domain.Exclusions{Systolic: "170", Diastolic: "80"})
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, session.PhaseBlocked, rt.Phase())

	_, err = rt.SubmitVitals(domain.Vitals{Fatigue: 1, RPEType: domain.RPEVerde})
	assert.ErrorIs(t, err, session.ErrSafetyBlocked)
	_, err = rt.Finish(context.Background(), 0, "")
	assert.ErrorIs(t, err, session.ErrSafetyBlocked)

	require.NoError(t, rt.Cancel())
	assert.Equal(t, session.PhaseClosed, rt.Phase())
}

func TestRuntime_UpdateSetRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture()
	clock := newClock()
	rt := newRuntime(t, f, NewMockLogWriter(ctrl), clock)

	_, err := rt.UpdateSet(f.c.ID, 0, session.SetPatch{Reps: ptrI(10)})
	assert.ErrorIs(t, err, session.ErrInvalidTransition)

	startRunning(t, rt)
	var verr *domain.ValidationError

	_, err = rt.UpdateSet(primitive.NewObjectID(), 0, session.SetPatch{Reps: ptrI(10)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "exerciseId", verr.Field)

	_, err = rt.UpdateSet(f.c.ID, 2, session.SetPatch{Reps: ptrI(10)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "setIndex", verr.Field)

	_, err = rt.UpdateSet(f.c.ID, 0, session.SetPatch{Completed: ptrB(true)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reps", verr.Field)

	_, err = rt.UpdateSet(f.c.ID, 0, session.SetPatch{Weight: ptrF(-1)})
	require.ErrorAs(t, err, &verr)

	// fields are edited independently of completion
	_, err = rt.UpdateSet(f.c.ID, 1, session.SetPatch{Weight: ptrF(12.5)})
	require.NoError(t, err)
	entry, err := rt.UpdateSet(f.c.ID, 1, session.SetPatch{Reps: ptrI(9)})
	require.NoError(t, err)
	assert.Equal(t, 12.5, *entry.Weight)
	assert.Equal(t, 9, *entry.Reps)
	assert.False(t, entry.Completed)

	require.NoError(t, rt.Pause())
	entry, err = rt.UpdateSet(f.c.ID, 1, session.SetPatch{Completed: ptrB(true)})
	require.NoError(t, err)
	assert.True(t, entry.Completed)
	assert.True(t, rt.View().Paused)
}

func TestAggregate_JoinsInCaptureOrder(t *testing.T) {
	f := newFixture()
	sets := session.Sets{
		f.c.ID: {
			{Weight: ptrF(40), Reps: ptrI(12), Completed: true},
			{Weight: ptrF(45), Reps: ptrI(10), Completed: false},
			{Weight: nil, Reps: ptrI(8), Completed: true},
		},
		f.b.ID: {},
	}

	logs := session.Aggregate(f.workout, sets)
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].SetsCompleted)
	assert.Equal(t, "40,", logs[0].WeightUsed)
	assert.Equal(t, "12,8", logs[0].RepsCompleted)
	assert.True(t, logs[0].IsCompleted)
}

func TestManager_OneSessionPerClientAndEviction(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := newClock()
	f := newFixture()
	m := session.NewManager(time.Hour, clock.Now)

	clientID := primitive.NewObjectID()
	newRT := func() *session.Runtime {
		rt, err := session.New(session.Config{ClientID: clientID, DayID: primitive.NewObjectID(), Workout: f.workout, Clock: clock.Now}, NewMockLogWriter(ctrl))
		require.NoError(t, err)
		return rt
	}

	first := m.Add(newRT())
	second := m.Add(newRT())
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, m.Len())

	err := m.With(first, clientID, func(*session.Runtime) error { return nil })
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	err = m.With(second, primitive.NewObjectID(), func(*session.Runtime) error { return nil })
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, m.With(second, clientID, func(rt *session.Runtime) error { return rt.Begin() }))
	active, ok := m.ActiveFor(clientID)
	require.True(t, ok)
	assert.Equal(t, second, active)

	clock.Advance(30 * time.Minute)
	assert.Zero(t, m.Evict())
	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, m.Evict())
	_, ok = m.ActiveFor(clientID)
	assert.False(t, ok)
}

func TestManager_EvictSkipsSessionInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := newClock()
	f := newFixture()
	m := session.NewManager(time.Hour, clock.Now)
	rt := newRuntime(t, f, NewMockLogWriter(ctrl), clock)

	id := m.Add(rt)
	clock.Advance(2 * time.Hour)

	entered, release, done := make(chan struct{}), make(chan struct{}), make(chan error)
	go func() {
		done <- m.With(id, rt.ClientID(), func(*session.Runtime) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	assert.Zero(t, m.Evict())
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, m.Len())
	assert.Zero(t, m.Evict())
	clock.Advance(61 * time.Minute)
	assert.Equal(t, 1, m.Evict())
	err := m.With(id, rt.ClientID(), func(*session.Runtime) error { return nil })
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_ClosedSessionIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := newClock()
	f := newFixture()
	m := session.NewManager(time.Hour, clock.Now)
	rt := newRuntime(t, f, NewMockLogWriter(ctrl), clock)

	id := m.Add(rt)
	require.NoError(t, m.With(id, rt.ClientID(), func(rt *session.Runtime) error { return rt.Cancel() }))
	assert.Zero(t, m.Len())
}

func TestManager_RunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := session.NewManager(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("eviction loop did not stop")
	}
}
