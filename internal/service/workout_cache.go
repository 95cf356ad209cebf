package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cachedWorkouts serves GetWorkout from an in-process cache. Saves and deletes going through
// it drop the entry; catalog edits only show up once the entry expires.
type cachedWorkouts struct {
	WorkoutService
	cache  *freecache.Cache
	expire int // seconds
}

// NewCachedWorkoutService wraps inner with a read cache of sizeBytes. A ttl below one
// second disables caching and returns inner as is.
func NewCachedWorkoutService(inner WorkoutService, sizeBytes int, ttl time.Duration) WorkoutService {
	if ttl < time.Second {
		return inner
	}
	return &cachedWorkouts{
		WorkoutService: inner,
		cache:          freecache.NewCache(sizeBytes),
		expire:         int(ttl / time.Second),
	}
}

func workoutCacheKey(id primitive.ObjectID) []byte {
	return []byte("workout::" + id.Hex())
}

func (c *cachedWorkouts) GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error) {
	key := workoutCacheKey(workoutID)
	if raw, err := c.cache.Get(key); err == nil {
		w := &domain.Workout{}
		err = json.Unmarshal(raw, w)
		if err == nil {
			return w, nil
		}
		log.WithField("workout", workoutID.Hex()).Errorf("failed to decode cached workout: %s", err)
	}

	w, err := c.WorkoutService.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(w)
	if err != nil {
		log.WithField("workout", workoutID.Hex()).Errorf("failed to encode workout for cache: %s", err)
		return w, nil
	}
	if err := c.cache.Set(key, raw, c.expire); err != nil {
		log.WithField("workout", workoutID.Hex()).Debugf("workout not cached: %s", err)
	}
	return w, nil
}

func (c *cachedWorkouts) SaveWorkout(ctx context.Context, coachID primitive.ObjectID, w *domain.Workout) (*domain.Workout, error) {
	if !w.ID.IsZero() {
		c.cache.Del(workoutCacheKey(w.ID))
	}
	return c.WorkoutService.SaveWorkout(ctx, coachID, w)
}

func (c *cachedWorkouts) DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	c.cache.Del(workoutCacheKey(workoutID))
	return c.WorkoutService.DeleteWorkout(ctx, workoutID)
}
