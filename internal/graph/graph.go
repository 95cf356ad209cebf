// Package graph turns flat, foreign-id linked rows into nested aggregates and back.
//
// Reads go one level at a time: the children of every parent on a level are fetched with a
// single "parent id in {...}" query, then joined back to their parents in memory and ordered
// by their explicit position field. Storage order is never trusted.
package graph

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FetchFunc loads every row whose parent id is one of parentIDs, in one round-trip.
type FetchFunc[T any] func(ctx context.Context, parentIDs []primitive.ObjectID) ([]T, error)

// Level describes how rows of one tree level hang off the level above.
type Level[T any] struct {
	Fetch    FetchFunc[T]
	ParentID func(T) primitive.ObjectID
	Position func(T) int
}

// Children fetches one level for all given parents and groups the rows by parent id,
// each group sorted by position. Parents without rows are absent from the map.
func Children[T any](ctx context.Context, lvl Level[T], parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]T, error) {
	parentIDs = Unique(parentIDs)
	if len(parentIDs) == 0 {
		return map[primitive.ObjectID][]T{}, nil
	}
	rows, err := lvl.Fetch(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	return GroupByParent(rows, lvl.ParentID, lvl.Position), nil
}

// GroupByParent indexes rows by parent id. Within a group rows are stable-sorted by position.
func GroupByParent[T any](rows []T, parentID func(T) primitive.ObjectID, position func(T) int) map[primitive.ObjectID][]T {
	grouped := make(map[primitive.ObjectID][]T)
	for _, row := range rows {
		pid := parentID(row)
		grouped[pid] = append(grouped[pid], row)
	}
	if position != nil {
		for _, group := range grouped {
			sort.SliceStable(group, func(i, j int) bool {
				return position(group[i]) < position(group[j])
			})
		}
	}
	return grouped
}

// Index builds an id lookup map, used to resolve leaf references such as catalog exercises.
func Index[T any](rows []T, id func(T) primitive.ObjectID) map[primitive.ObjectID]T {
	idx := make(map[primitive.ObjectID]T, len(rows))
	for _, row := range rows {
		idx[id(row)] = row
	}
	return idx
}

// IDs projects rows to their ids, preserving order.
func IDs[T any](rows []T, id func(T) primitive.ObjectID) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, id(row))
	}
	return ids
}

// Flatten concatenates grouped children in the order of parentIDs.
func Flatten[T any](grouped map[primitive.ObjectID][]T, parentIDs []primitive.ObjectID) []T {
	var out []T
	for _, pid := range parentIDs {
		out = append(out, grouped[pid]...)
	}
	return out
}

// Unique drops duplicate and nil ids, keeping first-seen order.
func Unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AssignPositions numbers rows 0..n-1 in slice order.
func AssignPositions[T any](rows []T, set func(*T, int)) {
	for i := range rows {
		set(&rows[i], i)
	}
}
