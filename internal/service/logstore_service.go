package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/graph"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// LogStore persists finished sessions and answers history and badge queries.
type LogStore interface {
	// Save writes the day log and its exercise logs. When the exercise logs cannot be written
	// the day log is removed again so no half session stays behind.
	Save(ctx context.Context, dayLog *domain.ClientDayLog, exerciseLogs []domain.ClientExerciseLog) error
	// GetLatest returns nil when the client never logged the day.
	GetLatest(ctx context.Context, clientID, dayID primitive.ObjectID) (*domain.ClientDayLog, error)
	ListAll(ctx context.Context, clientID primitive.ObjectID) ([]domain.HistoryEntry, error)
	HasAnyLog(ctx context.Context, clientID, dayID primitive.ObjectID) (bool, error)
	// CompletedDays returns which of dayIDs carry at least one log.
	CompletedDays(ctx context.Context, clientID primitive.ObjectID, dayIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
}

type logStore struct {
	store repository.Store
}

func NewLogStore(store repository.Store) LogStore {
	return &logStore{store: store}
}

func (s *logStore) Save(ctx context.Context, dayLog *domain.ClientDayLog, exerciseLogs []domain.ClientExerciseLog) error {
	if dayLog.ClientID.IsZero() || dayLog.DayID.IsZero() {
		return domain.NewValidationError("dayLog", "client and day are required")
	}
	if _, err := s.store.DayLogs.Create(ctx, dayLog); err != nil {
		return domain.Persist("save day log", err)
	}
	if len(exerciseLogs) == 0 {
		return nil
	}

	for i := range exerciseLogs {
		exerciseLogs[i].DayLogID = dayLog.ID
	}
	if err := s.store.ExerciseLogs.InsertMany(ctx, exerciseLogs); err != nil {
		fields := log.Fields{"client": dayLog.ClientID.Hex(), "dayLog": dayLog.ID.Hex()}
		// an ordered batch may have stored the rows ahead of the failing one
		if delErr := s.store.ExerciseLogs.DeleteByDayLogIDs(ctx, []primitive.ObjectID{dayLog.ID}); delErr != nil {
			log.WithFields(fields).Errorf("failed to roll back exercise logs: %s", delErr)
			err = multierr.Append(err, delErr)
		}
		if delErr := s.store.DayLogs.Delete(ctx, dayLog.ID); delErr != nil {
			log.WithFields(fields).Errorf("failed to roll back day log: %s", delErr)
			err = multierr.Append(err, delErr)
		}
		return domain.Persist("save exercise logs", err)
	}
	return nil
}

func (s *logStore) GetLatest(ctx context.Context, clientID, dayID primitive.ObjectID) (*domain.ClientDayLog, error) {
	dayLog, err := s.store.DayLogs.GetLatest(ctx, clientID, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, domain.Persist("get latest day log", err)
	}
	return dayLog, nil
}

func (s *logStore) HasAnyLog(ctx context.Context, clientID, dayID primitive.ObjectID) (bool, error) {
	ok, err := s.store.DayLogs.Exists(ctx, clientID, dayID)
	if err != nil {
		return false, domain.Persist("check day log", err)
	}
	return ok, nil
}

func (s *logStore) CompletedDays(ctx context.Context, clientID primitive.ObjectID, dayIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	done := make(map[primitive.ObjectID]bool, len(dayIDs))
	dayIDs = graph.Unique(dayIDs)
	if len(dayIDs) == 0 {
		return done, nil
	}
	ids, err := s.store.DayLogs.DayIDsWithLogs(ctx, clientID, dayIDs)
	if err != nil {
		return nil, domain.Persist("list completed days", err)
	}
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// ListAll returns the client's day logs, newest first, each with its day label and the
// completed exercises named after the catalog.
func (s *logStore) ListAll(ctx context.Context, clientID primitive.ObjectID) ([]domain.HistoryEntry, error) {
	dayLogs, err := s.store.DayLogs.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, domain.Persist("list day logs", err)
	}
	if len(dayLogs) == 0 {
		return []domain.HistoryEntry{}, nil
	}

	dayLogIDs := graph.IDs(dayLogs, func(l domain.ClientDayLog) primitive.ObjectID { return l.ID })
	logsByDayLog, err := graph.Children(ctx, graph.Level[domain.ClientExerciseLog]{
		Fetch:    s.store.ExerciseLogs.ListByDayLogIDs,
		ParentID: func(l domain.ClientExerciseLog) primitive.ObjectID { return l.DayLogID },
	}, dayLogIDs)
	if err != nil {
		return nil, domain.Persist("list exercise logs", err)
	}

	names, err := s.exerciseNames(ctx, graph.Flatten(logsByDayLog, dayLogIDs))
	if err != nil {
		return nil, err
	}

	days, err := s.store.ProgramDays.GetByIDs(ctx, graph.Unique(graph.IDs(dayLogs, func(l domain.ClientDayLog) primitive.ObjectID { return l.DayID })))
	if err != nil {
		return nil, domain.Persist("load program days", err)
	}
	dayIndex := graph.Index(days, dayID)

	entries := make([]domain.HistoryEntry, 0, len(dayLogs))
	for _, dl := range dayLogs {
		entry := domain.HistoryEntry{ClientDayLog: dl, Exercises: []domain.HistoryExercise{}}
		if d, ok := dayIndex[dl.DayID]; ok {
			entry.DayName = d.Label()
			entry.WeekNumber = d.WeekNumber
			entry.DayNumber = d.DayNumber
		}
		for _, el := range logsByDayLog[dl.ID] {
			entry.Exercises = append(entry.Exercises, domain.HistoryExercise{
				ClientExerciseLog: el,
				ExerciseName:      names[el.WorkoutExerciseID],
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// exerciseNames maps workout exercise ids to catalog names through two batched lookups.
func (s *logStore) exerciseNames(ctx context.Context, logs []domain.ClientExerciseLog) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string)
	weIDs := graph.Unique(graph.IDs(logs, func(l domain.ClientExerciseLog) primitive.ObjectID { return l.WorkoutExerciseID }))
	if len(weIDs) == 0 {
		return names, nil
	}
	prescribed, err := s.store.WorkoutExercises.GetByIDs(ctx, weIDs)
	if err != nil {
		return nil, domain.Persist("load workout exercises", err)
	}
	refs := graph.Unique(graph.IDs(prescribed, exerciseRef))
	if len(refs) == 0 {
		return names, nil
	}
	catalog, err := s.store.Exercises.GetByIDs(ctx, refs)
	if err != nil {
		return nil, domain.Persist("load exercises", err)
	}
	byID := graph.Index(catalog, exerciseID)
	for _, we := range prescribed {
		if e, ok := byID[we.ExerciseID]; ok {
			names[we.ID] = e.Name
		}
	}
	return names, nil
}
