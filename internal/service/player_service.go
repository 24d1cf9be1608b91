package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
	"rachas/hub/internal/repository"
	"rachas/hub/pkg/crypto"
	"rachas/hub/pkg/media"
)

const profileImageFolder = "players"

type RegisterPlayerInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	BirthDate *time.Time
	Position  model.Position
	// Password is optional; players without one cannot log in with a password.
	Password string
}

// UpdatePlayerInput is a partial update: nil fields are left alone.
type UpdatePlayerInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	BirthDate *time.Time
	Position  *model.Position
}

type ImageUpload struct {
	Filename         string
	Data             []byte
	RemoveBackground bool
}

type PlayerService interface {
	Register(ctx context.Context, input RegisterPlayerInput) (*model.Player, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Player, error)
	UpdateMe(ctx context.Context, actor uuid.UUID, input UpdatePlayerInput, image *ImageUpload) (*model.Player, error)
}

type playerService struct {
	playerRepo repository.PlayerRepository
	store      media.Store
	remover    media.BackgroundRemover
	logger     *zap.Logger
}

// NewPlayerService wires the profile pipeline. remover may be nil, in which
// case background removal requests keep the original image.
func NewPlayerService(
	playerRepo repository.PlayerRepository,
	store media.Store,
	remover media.BackgroundRemover,
	logger *zap.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		store:      store,
		remover:    remover,
		logger:     logger,
	}
}

func (s *playerService) Register(ctx context.Context, input RegisterPlayerInput) (*model.Player, error) {
	username := strings.TrimSpace(input.Username)
	if input.Position != "" && !input.Position.Valid() {
		return nil, ErrInvalidPosition
	}

	_, err := s.playerRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	player := &model.Player{
		Username:  username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
		Position:  input.Position,
	}
	if input.Password != "" {
		hash, err := crypto.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		player.PasswordHash = hash
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create player: %w", err)
	}
	return player, nil
}

func (s *playerService) Get(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPlayerNotFound)
	}
	return player, nil
}

func (s *playerService) UpdateMe(ctx context.Context, actor uuid.UUID, input UpdatePlayerInput, image *ImageUpload) (*model.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, notFound(err, ErrPlayerNotFound)
	}

	if input.Position != nil && *input.Position != "" && !input.Position.Valid() {
		return nil, ErrInvalidPosition
	}
	applyPlayerUpdate(player, input)

	if image != nil && len(image.Data) > 0 {
		ref, err := s.saveProfileImage(ctx, image)
		if err != nil {
			return nil, err
		}
		player.ProfileImage = ref
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("update player: %w", err)
	}
	return player, nil
}

func applyPlayerUpdate(p *model.Player, in UpdatePlayerInput) {
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.Position != nil {
		p.Position = *in.Position
	}
}

// saveProfileImage stores the upload, stripping its background first when
// asked. A failing remover is logged and the original bytes are kept.
func (s *playerService) saveProfileImage(ctx context.Context, image *ImageUpload) (string, error) {
	data, filename := image.Data, image.Filename
	if image.RemoveBackground {
		if s.remover == nil {
			s.logger.Warn("background removal requested but no remover is configured")
		} else if out, err := s.remover.Remove(ctx, data); err != nil {
			s.logger.Warn("background removal failed, keeping original image", zap.Error(err))
		} else {
			data = out
			filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + "_nobg.png"
		}
	}

	ref, err := s.store.Save(ctx, profileImageFolder, filename, data)
	if err != nil {
		return "", fmt.Errorf("save profile image: %w", err)
	}
	return ref, nil
}

var _ PlayerService = (*playerService)(nil)
