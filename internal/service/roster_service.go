package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrClientAlreadyLinked = errors.New("client is already linked to another coach")

// RosterService manages which clients a coach looks after.
type RosterService interface {
	// AddClientByEmail links an existing client account to the coach. Linking a client the
	// coach already has is a no-op.
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.User, error)
	ListClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

type rosterService struct {
	users repository.UserRepository
}

func NewRosterService(users repository.UserRepository) RosterService {
	return &rosterService{users: users}
}

func (s *rosterService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	client, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, domain.Persist("get client by email", err)
	}
	if !client.IsClient() {
		return nil, ErrNotAClient
	}
	if client.CoachID != nil && !client.CoachID.IsZero() {
		if *client.CoachID == coachID {
			return client, nil
		}
		return nil, ErrClientAlreadyLinked
	}

	if err := s.users.SetCoach(ctx, client.ID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, domain.Persist("link client", err)
	}
	client.CoachID = &coachID

	log.WithFields(log.Fields{"coach": coachID.Hex(), "client": client.ID.Hex()}).Info("client linked to coach")
	return client, nil
}

func (s *rosterService) ListClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	clients, err := s.users.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, domain.Persist("list clients", err)
	}
	if clients == nil {
		clients = []domain.User{}
	}
	return clients, nil
}
