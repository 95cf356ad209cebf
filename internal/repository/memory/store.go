package memory

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStore returns a fresh, empty in-memory store.
func NewStore() repository.Store {
	return repository.Store{
		Users:            &userRepository{t: newTable(func(u *domain.User) *primitive.ObjectID { return &u.ID })},
		Exercises:        &exerciseRepository{t: newTable(func(e *domain.Exercise) *primitive.ObjectID { return &e.ID })},
		Workouts:         &workoutRepository{t: newTable(func(w *domain.Workout) *primitive.ObjectID { return &w.ID })},
		Blocks:           &blockRepository{t: newTable(func(b *domain.Block) *primitive.ObjectID { return &b.ID })},
		WorkoutExercises: &workoutExerciseRepository{t: newTable(func(e *domain.WorkoutExercise) *primitive.ObjectID { return &e.ID })},
		Programs:         &programRepository{t: newTable(func(p *domain.TrainingProgram) *primitive.ObjectID { return &p.ID })},
		ProgramDays:      &programDayRepository{t: newTable(func(d *domain.ProgramDay) *primitive.ObjectID { return &d.ID })},
		Activities:       &programActivityRepository{t: newTable(func(a *domain.ProgramActivity) *primitive.ObjectID { return &a.ID })},
		Assignments:      &assignmentRepository{t: newTable(func(a *domain.ClientTrainingAssignment) *primitive.ObjectID { return &a.ID })},
		DayLogs:          &dayLogRepository{t: newTable(func(l *domain.ClientDayLog) *primitive.ObjectID { return &l.ID })},
		ExerciseLogs:     &exerciseLogRepository{t: newTable(func(l *domain.ClientExerciseLog) *primitive.ObjectID { return &l.ID })},
		ActivityLogs:     &activityLogRepository{t: newTable(func(l *domain.ClientActivityLog) *primitive.ObjectID { return &l.ID })},
		Uploads:          &uploadRepository{t: newTable(func(u *domain.Upload) *primitive.ObjectID { return &u.ID })},
	}
}

func notFound[T any](row T, ok bool) (*T, error) {
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func deleted(n int) error {
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func byPosition[T any](pos func(*T) int) func(a, b *T) bool {
	return func(a, b *T) bool { return pos(a) < pos(b) }
}

// users

type userRepository struct{ t *table[domain.User] }

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if !r.t.insertUnique(*user, func(e, u *domain.User) bool { return e.Email == u.Email }) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	return user.ID, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return notFound(r.t.find(func(u *domain.User) bool { return u.Email == email }))
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return notFound(r.t.byID(id))
}

func (r *userRepository) SetCoach(_ context.Context, clientID, coachID primitive.ObjectID) error {
	ok := r.t.update(clientID, func(u *domain.User) {
		u.CoachID = &coachID
		u.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	return r.t.filter(
		func(u *domain.User) bool { return u.Role == domain.RoleClient && u.CoachID != nil && *u.CoachID == coachID },
		func(a, b *domain.User) bool { return a.Name < b.Name },
	), nil
}

// exercises

type exerciseRepository struct{ t *table[domain.Exercise] }

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt, exercise.UpdatedAt = now, now
	if !r.t.insertUnique(*exercise, func(e, x *domain.Exercise) bool { return e.NameKey == x.NameKey }) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return notFound(r.t.byID(id))
}

func (r *exerciseRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	set := idSet(ids)
	return r.t.filter(func(e *domain.Exercise) bool { return in(set, e.ID) }, nil), nil
}

func (r *exerciseRepository) GetByNameKey(_ context.Context, nameKey string) (*domain.Exercise, error) {
	return notFound(r.t.find(func(e *domain.Exercise) bool { return e.NameKey == nameKey }))
}

func (r *exerciseRepository) List(_ context.Context) ([]domain.Exercise, error) {
	return r.t.filter(nil, func(a, b *domain.Exercise) bool { return a.Name < b.Name }), nil
}

func (r *exerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	ok := r.t.update(exercise.ID, func(e *domain.Exercise) {
		createdAt, createdBy := e.CreatedAt, e.CreatedBy
		*e = *exercise
		e.CreatedAt, e.CreatedBy = createdAt, createdBy
	})
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *exerciseRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleted(r.t.deleteWhere(func(e *domain.Exercise) bool { return e.ID == id }))
}

// workouts

type workoutRepository struct{ t *table[domain.Workout] }

func (r *workoutRepository) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt, workout.UpdatedAt = now, now
	row := *workout
	row.Blocks = nil
	r.t.insert(row)
	return workout.ID, nil
}

func (r *workoutRepository) Update(_ context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()
	ok := r.t.update(workout.ID, func(w *domain.Workout) {
		w.Name, w.Description, w.Goal, w.Notes = workout.Name, workout.Description, workout.Goal, workout.Notes
		w.UpdatedAt = workout.UpdatedAt
	})
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return notFound(r.t.byID(id))
}

func (r *workoutRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	set := idSet(ids)
	return r.t.filter(func(w *domain.Workout) bool { return in(set, w.ID) }, nil), nil
}

func (r *workoutRepository) List(_ context.Context) ([]domain.Workout, error) {
	return r.t.filter(nil, func(a, b *domain.Workout) bool { return a.UpdatedAt.After(b.UpdatedAt) }), nil
}

func (r *workoutRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleted(r.t.deleteWhere(func(w *domain.Workout) bool { return w.ID == id }))
}

type blockRepository struct{ t *table[domain.Block] }

func (r *blockRepository) InsertMany(_ context.Context, blocks []domain.Block) error {
	rows := make([]domain.Block, len(blocks))
	for i := range blocks {
		blocks[i].ID = primitive.NewObjectID()
		rows[i] = blocks[i]
		rows[i].Exercises = nil
	}
	r.t.insert(rows...)
	return nil
}

func (r *blockRepository) ListByWorkoutIDs(_ context.Context, workoutIDs []primitive.ObjectID) ([]domain.Block, error) {
	set := idSet(workoutIDs)
	return r.t.filter(func(b *domain.Block) bool { return in(set, b.WorkoutID) },
		byPosition(func(b *domain.Block) int { return b.Position })), nil
}

func (r *blockRepository) DeleteByWorkoutIDs(_ context.Context, workoutIDs []primitive.ObjectID) error {
	set := idSet(workoutIDs)
	r.t.deleteWhere(func(b *domain.Block) bool { return in(set, b.WorkoutID) })
	return nil
}

type workoutExerciseRepository struct{ t *table[domain.WorkoutExercise] }

func (r *workoutExerciseRepository) InsertMany(_ context.Context, exercises []domain.WorkoutExercise) error {
	rows := make([]domain.WorkoutExercise, len(exercises))
	for i := range exercises {
		exercises[i].ID = primitive.NewObjectID()
		rows[i] = exercises[i]
		rows[i].Exercise = nil
	}
	r.t.insert(rows...)
	return nil
}

func (r *workoutExerciseRepository) ListByBlockIDs(_ context.Context, blockIDs []primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	set := idSet(blockIDs)
	return r.t.filter(func(e *domain.WorkoutExercise) bool { return in(set, e.BlockID) },
		byPosition(func(e *domain.WorkoutExercise) int { return e.Position })), nil
}

func (r *workoutExerciseRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	set := idSet(ids)
	return r.t.filter(func(e *domain.WorkoutExercise) bool { return in(set, e.ID) }, nil), nil
}

func (r *workoutExerciseRepository) DeleteByBlockIDs(_ context.Context, blockIDs []primitive.ObjectID) error {
	set := idSet(blockIDs)
	r.t.deleteWhere(func(e *domain.WorkoutExercise) bool { return in(set, e.BlockID) })
	return nil
}

// programs

type programRepository struct{ t *table[domain.TrainingProgram] }

func (r *programRepository) Create(_ context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt, program.UpdatedAt = now, now
	row := *program
	row.Days = nil
	r.t.insert(row)
	return program.ID, nil
}

func (r *programRepository) Update(_ context.Context, program *domain.TrainingProgram) error {
	program.UpdatedAt = time.Now().UTC()
	ok := r.t.update(program.ID, func(p *domain.TrainingProgram) {
		p.Name, p.Description, p.WeeksCount = program.Name, program.Description, program.WeeksCount
		p.UpdatedAt = program.UpdatedAt
	})
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *programRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error) {
	return notFound(r.t.byID(id))
}

func (r *programRepository) List(_ context.Context) ([]domain.TrainingProgram, error) {
	return r.t.filter(nil, func(a, b *domain.TrainingProgram) bool { return a.UpdatedAt.After(b.UpdatedAt) }), nil
}

func (r *programRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleted(r.t.deleteWhere(func(p *domain.TrainingProgram) bool { return p.ID == id }))
}

type programDayRepository struct{ t *table[domain.ProgramDay] }

func (r *programDayRepository) InsertMany(_ context.Context, days []domain.ProgramDay) error {
	for i := range days {
		days[i].ID = primitive.NewObjectID()
		row := days[i]
		row.Activities = nil
		ok := r.t.insertUnique(row, func(e, d *domain.ProgramDay) bool {
			return e.ProgramID == d.ProgramID && e.WeekNumber == d.WeekNumber && e.DayNumber == d.DayNumber
		})
		if !ok {
			return repository.ErrDuplicate
		}
	}
	return nil
}

func (r *programDayRepository) ListByProgramIDs(_ context.Context, programIDs []primitive.ObjectID) ([]domain.ProgramDay, error) {
	set := idSet(programIDs)
	return r.t.filter(func(d *domain.ProgramDay) bool { return in(set, d.ProgramID) },
		byPosition(func(d *domain.ProgramDay) int { return d.Position })), nil
}

func (r *programDayRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ProgramDay, error) {
	set := idSet(ids)
	return r.t.filter(func(d *domain.ProgramDay) bool { return in(set, d.ID) }, nil), nil
}

func (r *programDayRepository) DeleteByProgramIDs(_ context.Context, programIDs []primitive.ObjectID) error {
	set := idSet(programIDs)
	r.t.deleteWhere(func(d *domain.ProgramDay) bool { return in(set, d.ProgramID) })
	return nil
}

type programActivityRepository struct{ t *table[domain.ProgramActivity] }

func (r *programActivityRepository) InsertMany(_ context.Context, activities []domain.ProgramActivity) error {
	for i := range activities {
		activities[i].ID = primitive.NewObjectID()
	}
	r.t.insert(activities...)
	return nil
}

func (r *programActivityRepository) ListByDayIDs(_ context.Context, dayIDs []primitive.ObjectID) ([]domain.ProgramActivity, error) {
	set := idSet(dayIDs)
	return r.t.filter(func(a *domain.ProgramActivity) bool { return in(set, a.DayID) },
		byPosition(func(a *domain.ProgramActivity) int { return a.Position })), nil
}

func (r *programActivityRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramActivity, error) {
	return notFound(r.t.byID(id))
}

func (r *programActivityRepository) DeleteByDayIDs(_ context.Context, dayIDs []primitive.ObjectID) error {
	set := idSet(dayIDs)
	r.t.deleteWhere(func(a *domain.ProgramActivity) bool { return in(set, a.DayID) })
	return nil
}

// assignments

type assignmentRepository struct{ t *table[domain.ClientTrainingAssignment] }

func (r *assignmentRepository) Create(_ context.Context, assignment *domain.ClientTrainingAssignment) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	ok := r.t.insertUnique(*assignment, func(e, a *domain.ClientTrainingAssignment) bool { return e.ClientID == a.ClientID })
	if !ok {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	return assignment.ID, nil
}

func (r *assignmentRepository) GetByClientID(_ context.Context, clientID primitive.ObjectID) (*domain.ClientTrainingAssignment, error) {
	return notFound(r.t.find(func(a *domain.ClientTrainingAssignment) bool { return a.ClientID == clientID }))
}

func (r *assignmentRepository) DeleteByClientID(_ context.Context, clientID primitive.ObjectID) error {
	r.t.deleteWhere(func(a *domain.ClientTrainingAssignment) bool { return a.ClientID == clientID })
	return nil
}

func (r *assignmentRepository) ExistsForProgram(_ context.Context, programID primitive.ObjectID) (bool, error) {
	_, ok := r.t.find(func(a *domain.ClientTrainingAssignment) bool { return a.ProgramID == programID })
	return ok, nil
}

// logs

type dayLogRepository struct{ t *table[domain.ClientDayLog] }

func newestFirst(a, b *domain.ClientDayLog) bool { return a.CompletedAt.After(b.CompletedAt) }

func (r *dayLogRepository) Create(_ context.Context, log *domain.ClientDayLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	r.t.insert(*log)
	return log.ID, nil
}

func (r *dayLogRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleted(r.t.deleteWhere(func(l *domain.ClientDayLog) bool { return l.ID == id }))
}

func (r *dayLogRepository) GetLatest(_ context.Context, clientID, dayID primitive.ObjectID) (*domain.ClientDayLog, error) {
	logs := r.t.filter(func(l *domain.ClientDayLog) bool { return l.ClientID == clientID && l.DayID == dayID }, newestFirst)
	if len(logs) == 0 {
		return nil, repository.ErrNotFound
	}
	return &logs[0], nil
}

func (r *dayLogRepository) ListByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.ClientDayLog, error) {
	return r.t.filter(func(l *domain.ClientDayLog) bool { return l.ClientID == clientID }, newestFirst), nil
}

func (r *dayLogRepository) Exists(_ context.Context, clientID, dayID primitive.ObjectID) (bool, error) {
	_, ok := r.t.find(func(l *domain.ClientDayLog) bool { return l.ClientID == clientID && l.DayID == dayID })
	return ok, nil
}

func (r *dayLogRepository) DayIDsWithLogs(_ context.Context, clientID primitive.ObjectID, dayIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	set := idSet(dayIDs)
	seen := make(map[primitive.ObjectID]struct{})
	ids := []primitive.ObjectID{}
	for _, l := range r.t.filter(func(l *domain.ClientDayLog) bool { return l.ClientID == clientID && in(set, l.DayID) }, nil) {
		if in(seen, l.DayID) {
			continue
		}
		seen[l.DayID] = struct{}{}
		ids = append(ids, l.DayID)
	}
	return ids, nil
}

type exerciseLogRepository struct{ t *table[domain.ClientExerciseLog] }

func (r *exerciseLogRepository) InsertMany(_ context.Context, logs []domain.ClientExerciseLog) error {
	for i := range logs {
		logs[i].ID = primitive.NewObjectID()
	}
	r.t.insert(logs...)
	return nil
}

func (r *exerciseLogRepository) ListByDayLogIDs(_ context.Context, dayLogIDs []primitive.ObjectID) ([]domain.ClientExerciseLog, error) {
	set := idSet(dayLogIDs)
	return r.t.filter(func(l *domain.ClientExerciseLog) bool { return in(set, l.DayLogID) }, nil), nil
}

func (r *exerciseLogRepository) DeleteByDayLogIDs(_ context.Context, dayLogIDs []primitive.ObjectID) error {
	set := idSet(dayLogIDs)
	r.t.deleteWhere(func(l *domain.ClientExerciseLog) bool { return in(set, l.DayLogID) })
	return nil
}

type activityLogRepository struct{ t *table[domain.ClientActivityLog] }

func (r *activityLogRepository) Create(_ context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	r.t.insert(*log)
	return log.ID, nil
}

func (r *activityLogRepository) Upsert(ctx context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error) {
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	same := func(l *domain.ClientActivityLog) bool {
		return l.ClientID == log.ClientID && l.ActivityID == log.ActivityID && l.DayID == log.DayID
	}
	if existing, ok := r.t.find(same); ok {
		log.ID = existing.ID
		r.t.update(existing.ID, func(l *domain.ClientActivityLog) { *l = *log })
		return log.ID, nil
	}
	return r.Create(ctx, log)
}

func (r *activityLogRepository) ListByClientAndDay(_ context.Context, clientID, dayID primitive.ObjectID) ([]domain.ClientActivityLog, error) {
	return r.t.filter(func(l *domain.ClientActivityLog) bool { return l.ClientID == clientID && l.DayID == dayID },
		func(a, b *domain.ClientActivityLog) bool { return a.CompletedAt.Before(b.CompletedAt) }), nil
}

// uploads

type uploadRepository struct{ t *table[domain.Upload] }

func (r *uploadRepository) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()
	r.t.insert(*upload)
	return upload.ID, nil
}

func (r *uploadRepository) ListByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Upload, error) {
	return r.t.filter(func(u *domain.Upload) bool { return u.ClientID == clientID },
		func(a, b *domain.Upload) bool { return a.UploadedAt.After(b.UploadedAt) }), nil
}
