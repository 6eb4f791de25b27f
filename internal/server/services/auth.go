// Package services contains server-side business logic. This file implements
// AuthService: the login/lockout state machine over the user store, plus the
// administrative account operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/dbx"
	"github.com/mathrevise/backend/internal/logging"
	"github.com/mathrevise/backend/internal/server/auth"
	"github.com/mathrevise/backend/internal/server/config"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/server/repositories/repomanager"
	"github.com/mathrevise/backend/internal/userreq"
)

// LockThreshold is the strike count at which an account locks. Locked
// accounts reject every login attempt until an admin resets the counter.
const LockThreshold = 3

// Display messages returned verbatim to the UI. The invalid-details message
// is shared between unknown-username and wrong-password failures so callers
// cannot enumerate accounts.
const (
	msgInvalidDetails  = "The username or password was incorrect."
	msgAccountLocked   = "The attempts exceeded 3"
	msgCouldNotFetch   = "Could not fetch user"
	msgUserNotFound    = "Could not find user"
	msgStrikeAddFail   = "Strike Add Failed."
	msgStrikeResetFail = "Strike Reset Failed."
)

// strike bookkeeping writes are retried briefly before giving up
const (
	strikeRetryInitialInterval = 50 * time.Millisecond
	strikeRetryMaxElapsed      = 2 * time.Second
)

// LoginResult is the successful outcome of a login attempt.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// NewUser carries the fields of a registration request. Shape validation
// (username length, date format) is the caller's job.
type NewUser struct {
	Username    string
	Password    string
	DateOfBirth time.Time
	AccessLevel models.AccessLevel
}

// AuthService holds no per-call state; the authentication state of an
// account lives entirely in its persisted record. The store handle is
// injected at construction.
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration

	retryInitialInterval time.Duration
	retryMaxElapsed      time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		db:                   db,
		repos:                m,
		logger:               l.With("module", "auth_service"),
		jwtSecret:            []byte(cfg.SecretKey),
		tokenValidity:        cfg.AccessTokenValidityDuration,
		retryInitialInterval: strikeRetryInitialInterval,
		retryMaxElapsed:      strikeRetryMaxElapsed,
	}
}

// ValidateLogin checks the supplied credentials and mutates the persisted
// strike counter according to the outcome:
//
//   - unknown username         → InvalidDetails, no mutation
//   - strikes >= LockThreshold → AccountLocked, no mutation (the counter is
//     never pushed further by login attempts once the account is locked)
//   - wrong password           → strikes+1 (atomic at the store), InvalidDetails
//   - correct password         → strikes reset to 0, user + access token returned
//
// A failed bookkeeping write is retried with backoff. If the reset after a
// correct password still fails, the login result is returned together with a
// StrikeResetError: the caller gets the confirmed login and decides how to
// report the stale counter.
func (s *AuthService) ValidateLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, userreq.New(userreq.InvalidDetails, msgInvalidDetails)
		}
		return nil, userreq.Wrap(userreq.ConnectionError, msgCouldNotFetch, err)
	}

	if user.Strikes >= LockThreshold {
		return nil, userreq.New(userreq.AccountLocked, msgAccountLocked)
	}

	if !auth.VerifyPassword(user.PasswordHash, []byte(password), user.Salt) {
		err := s.retryStrikeWrite(ctx, func() error {
			_, err := repo.AddStrike(ctx, username)
			if errors.Is(err, common.ErrorNotFound) {
				// account deleted between read and write; nothing to record
				return backoff.Permanent(err)
			}
			return err
		})
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "strike increment failed", "username", username, "error", err.Error())
			return nil, userreq.Wrap(userreq.StrikeAddError, msgStrikeAddFail, err)
		}
		return nil, userreq.New(userreq.InvalidDetails, msgInvalidDetails)
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, userreq.Wrap(userreq.SessionError, "Could not create session", err)
	}

	resetErr := s.retryStrikeWrite(ctx, func() error {
		return repo.ResetStrikes(ctx, username)
	})
	if resetErr != nil {
		// the credentials were correct: hand the login back anyway and let
		// the caller surface the bookkeeping failure
		s.logger.Error(ctx, "strike reset failed", "username", username, "error", resetErr.Error())
		return &LoginResult{User: user, AccessToken: token},
			userreq.Wrap(userreq.StrikeResetError, msgStrikeResetFail, resetErr)
	}

	user.Strikes = 0
	return &LoginResult{User: user, AccessToken: token}, nil
}

// AddUser registers an account. Strikes start at zero regardless of input,
// and the plaintext password is dropped after hashing.
func (s *AuthService) AddUser(ctx context.Context, in *NewUser) error {
	salt := common.GenerateRandByteArray(auth.SaltLength)
	password := []byte(in.Password)
	hash := auth.HashPassword(password, salt)
	common.WipeByteArray(password)

	user := &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Salt:         salt,
		DateOfBirth:  in.DateOfBirth,
		AccessLevel:  in.AccessLevel,
		Strikes:      0,
	}

	repo := s.repos.Users(s.db)
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return userreq.Wrap(userreq.AddUserError, "That username is already taken", err)
		}
		return userreq.Wrap(userreq.AddUserError, "Could not add user object to database", err)
	}

	return nil
}

// UnlockUser resets the strike counter of a named account to zero. Unlocking
// an account that is not locked is a harmless no-op.
func (s *AuthService) UnlockUser(ctx context.Context, username string) error {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return userreq.New(userreq.UserNotFound, msgUserNotFound)
		}
		return userreq.Wrap(userreq.ConnectionError, msgCouldNotFetch, err)
	}

	if err := repo.ResetStrikes(ctx, username); err != nil {
		return userreq.Wrap(userreq.StrikeResetError, msgStrikeResetFail, err)
	}

	s.logger.Info(ctx, "account unlocked", "username", username)
	return nil
}

// DeleteUser removes an account and, in the same transaction, every quiz
// review it owns, so no review dangles on a missing username.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.repos.Users(s.db).GetByUsername(ctx, username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return userreq.New(userreq.UserNotFound, msgUserNotFound)
		}
		return userreq.Wrap(userreq.ConnectionError, msgCouldNotFetch, err)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Reviews(tx).DeleteByUsername(ctx, username); err != nil {
			return err
		}
		return s.repos.Users(tx).Delete(ctx, username)
	})
	if err != nil {
		return userreq.Wrap(userreq.DeleteUserError, "Could not delete user", err)
	}

	s.logger.Info(ctx, "account deleted", "username", username)
	return nil
}

// ListUsers returns every registered account.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	out, err := s.repos.Users(s.db).List(ctx)
	if err != nil {
		return nil, userreq.Wrap(userreq.FetchUsersError, "Could not fetch users", err)
	}
	return out, nil
}

func (s *AuthService) retryStrikeWrite(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInitialInterval
	bo.MaxElapsedTime = s.retryMaxElapsed
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
