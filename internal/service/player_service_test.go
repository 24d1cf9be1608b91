package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"rachas/hub/internal/model"
	"rachas/hub/pkg/crypto"
)

type savedImage struct {
	folder, filename string
	data             []byte
}

type fakeMediaStore struct{ saved []savedImage }

func (s *fakeMediaStore) Save(_ context.Context, folder, filename string, data []byte) (string, error) {
	s.saved = append(s.saved, savedImage{folder, filename, data})
	return folder + "/" + filename, nil
}

type fakeRemover struct {
	out []byte
	err error
}

func (r *fakeRemover) Remove(_ context.Context, _ []byte) ([]byte, error) {
	return r.out, r.err
}

func TestPlayerService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewPlayerService(f.players, &fakeMediaStore{}, nil, zap.NewNop())

	p, err := svc.Register(ctx, RegisterPlayerInput{
		Username: " ana ", FirstName: "Ana", Position: model.PositionForward, Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Username)
	assert.True(t, crypto.CheckPassword("pw", p.PasswordHash))

	_, err = svc.Register(ctx, RegisterPlayerInput{Username: "ANA"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterPlayerInput{Username: "bia", Position: "PIVO"})
	assert.ErrorIs(t, err, ErrInvalidPosition)

	noPass, err := svc.Register(ctx, RegisterPlayerInput{Username: "caio"})
	require.NoError(t, err)
	assert.Empty(t, noPass.PasswordHash)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerService_UpdateMePartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.db.addPlayer("ana")
	p := f.db.players[id]
	p.FirstName, p.Phone = "Ana", "123"
	f.db.players[id] = p
	svc := NewPlayerService(f.players, &fakeMediaStore{}, nil, zap.NewNop())

	last := "Souza"
	pos := model.PositionGoalkeeper
	got, err := svc.UpdateMe(ctx, id, UpdatePlayerInput{LastName: &last, Position: &pos}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got.FullName())
	assert.Equal(t, "123", f.db.players[id].Phone)
	assert.Equal(t, model.PositionGoalkeeper, f.db.players[id].Position)
}

func TestPlayerService_BackgroundRemoval(t *testing.T) {
	ctx := context.Background()
	original := []byte("jpeg-bytes")

	t.Run("processed image replaces the upload", func(t *testing.T) {
		f := newFixture()
		id := f.db.addPlayer("ana")
		store := &fakeMediaStore{}
		svc := NewPlayerService(f.players, store, &fakeRemover{out: []byte("png-bytes")}, zap.NewNop())

		got, err := svc.UpdateMe(ctx, id, UpdatePlayerInput{},
			&ImageUpload{Filename: "me.jpg", Data: original, RemoveBackground: true})

		require.NoError(t, err)
		require.Len(t, store.saved, 1)
		assert.Equal(t, []byte("png-bytes"), store.saved[0].data)
		assert.Equal(t, "me_nobg.png", store.saved[0].filename)
		assert.Equal(t, "players/me_nobg.png", got.ProfileImage)
	})

	t.Run("failure falls back to the original", func(t *testing.T) {
		f := newFixture()
		id := f.db.addPlayer("ana")
		store := &fakeMediaStore{}
		core, logs := observer.New(zap.WarnLevel)
		svc := NewPlayerService(f.players, store, &fakeRemover{err: errors.New("model unavailable")}, zap.New(core))

		got, err := svc.UpdateMe(ctx, id, UpdatePlayerInput{},
			&ImageUpload{Filename: "me.jpg", Data: original, RemoveBackground: true})

		require.NoError(t, err)
		require.Len(t, store.saved, 1)
		assert.Equal(t, original, store.saved[0].data)
		assert.Equal(t, "players/me.jpg", got.ProfileImage)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("flag off skips the remover", func(t *testing.T) {
		f := newFixture()
		id := f.db.addPlayer("ana")
		store := &fakeMediaStore{}
		svc := NewPlayerService(f.players, store, &fakeRemover{err: errors.New("should not be called")}, zap.NewNop())

		_, err := svc.UpdateMe(ctx, id, UpdatePlayerInput{}, &ImageUpload{Filename: "me.jpg", Data: original})

		require.NoError(t, err)
		assert.Equal(t, original, store.saved[0].data)
	})
}
