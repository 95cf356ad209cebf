package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_AddClientByEmail(t *testing.T) {
	f := newFixture(t)
	roster := service.NewRosterService(f.store.Users)

	loose := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleClient}
	_, err := f.store.Users.Create(f.ctx, loose)
	require.NoError(t, err)

	linked, err := roster.AddClientByEmail(f.ctx, f.coach.ID, "  ANA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, linked.CoachID)
	assert.Equal(t, f.coach.ID, *linked.CoachID)

	// linking twice is fine
	_, err = roster.AddClientByEmail(f.ctx, f.coach.ID, "ana@example.com")
	require.NoError(t, err)

	clients, err := roster.ListClients(f.ctx, f.coach.ID)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Ana", clients[0].Name)
	assert.Equal(t, "Client", clients[1].Name)
}

func TestRoster_Rejections(t *testing.T) {
	f := newFixture(t)
	roster := service.NewRosterService(f.store.Users)

	other := &domain.User{Name: "Other", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleCoach}
	_, err := f.store.Users.Create(f.ctx, other)
	require.NoError(t, err)

	_, err = roster.AddClientByEmail(f.ctx, other.ID, f.client.Email)
	assert.ErrorIs(t, err, service.ErrClientAlreadyLinked)

	_, err = roster.AddClientByEmail(f.ctx, f.coach.ID, other.Email)
	assert.ErrorIs(t, err, service.ErrNotAClient)

	_, err = roster.AddClientByEmail(f.ctx, f.coach.ID, "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrClientNotFound)

	_, err = roster.AddClientByEmail(f.ctx, f.coach.ID, " ")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	clients, err := roster.ListClients(f.ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, clients)
}
