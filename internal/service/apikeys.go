package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

const keyScheme = "qk"

var ErrInvalidAPIKey = errors.New("invalid api key")

// IssuedKey is returned once on creation; the plaintext key is not stored.
type IssuedKey struct {
	models.APIKey
	Key string `json:"key"`
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateAPIKey generates a key of the form qk_<prefix>_<secret> and stores a
// bcrypt hash of the secret.
func (s *Service) CreateAPIKey(ctx context.Context, name string, expiresAt *time.Time) (IssuedKey, error) {
	name = strings.TrimSpace(name)
	var verrs models.ValidationErrors
	if name == "" {
		verrs = append(verrs, models.FieldError{Field: "name", Description: "name is required"})
	}
	if expiresAt != nil && !expiresAt.After(s.clock()) {
		verrs = append(verrs, models.FieldError{Field: "expires_at", Description: "expires_at must be in the future"})
	}
	if len(verrs) > 0 {
		return IssuedKey{}, verrs
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		prefix, err := randomHex(4)
		if err != nil {
			return IssuedKey{}, err
		}
		secret, err := randomHex(16)
		if err != nil {
			return IssuedKey{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return IssuedKey{}, fmt.Errorf("failed to hash api key: %w", err)
		}

		created, err := s.repos.APIKeys.Create(ctx, models.APIKey{
			Name:      name,
			Prefix:    prefix,
			KeyHash:   string(hash),
			Enabled:   true,
			CreatedAt: s.clock(),
			ExpiresAt: expiresAt,
		})
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			continue
		}
		if err != nil {
			return IssuedKey{}, err
		}
		s.log.WithField("prefix", prefix).Info("api key created")
		return IssuedKey{APIKey: created, Key: fmt.Sprintf("%s_%s_%s", keyScheme, prefix, secret)}, nil
	}
	return IssuedKey{}, fmt.Errorf("could not allocate an api key prefix after %d attempts", numberAttempts)
}

func (s *Service) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	return s.repos.APIKeys.List(ctx)
}

func (s *Service) SetAPIKeyEnabled(ctx context.Context, id int64, enabled bool) (models.APIKey, error) {
	return s.repos.APIKeys.SetEnabled(ctx, id, enabled)
}

func (s *Service) DeleteAPIKey(ctx context.Context, id int64) error {
	return s.repos.APIKeys.Delete(ctx, id)
}

// VerifyAPIKey checks a plaintext key and records its use.
func (s *Service) VerifyAPIKey(ctx context.Context, key string) (models.APIKey, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "_", 3)
	if len(parts) != 3 || parts[0] != keyScheme || parts[1] == "" || parts[2] == "" {
		return models.APIKey{}, ErrInvalidAPIKey
	}

	k, err := s.repos.APIKeys.GetByPrefix(ctx, parts[1])
	if errors.Is(err, repo.ErrAPIKeyNotFound) {
		return models.APIKey{}, ErrInvalidAPIKey
	}
	if err != nil {
		return models.APIKey{}, err
	}
	now := s.clock()
	if !k.Enabled || k.Expired(now) {
		return models.APIKey{}, ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(parts[2])); err != nil {
		return models.APIKey{}, ErrInvalidAPIKey
	}

	if err := s.repos.APIKeys.Touch(ctx, k.ID, now); err != nil {
		s.log.WithError(err).WithField("prefix", k.Prefix).Warn("failed to record api key use")
	} else {
		k.LastUsedAt = &now
	}
	return k, nil
}
