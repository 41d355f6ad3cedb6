/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package service provides the user operations consumed by the grant handlers.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/store"
)

const loggerComponentName = "UserService"

// UserVerifierInterface verifies local user credentials.
type UserVerifierInterface interface {
	VerifyUser(ctx context.Context, username, password string) (*model.User, *serviceerror.ServiceError)
}

// FederatedUserResolverInterface resolves a local user from a federated directory identity.
// A nil user with a nil error means no user is linked and none was provisioned.
type FederatedUserResolverInterface interface {
	FindFederatedUser(ctx context.Context, externalID string,
		claims map[string]interface{}) (*model.User, *serviceerror.ServiceError)
}

// UserServiceInterface defines the interface for the user service.
type UserServiceInterface interface {
	UserVerifierInterface
	FederatedUserResolverInterface
	GetUser(ctx context.Context, userID string) (*model.User, *serviceerror.ServiceError)
	CreateUser(ctx context.Context, user model.User, password string) (*model.User, *serviceerror.ServiceError)
	ImportStaticUsers(ctx context.Context, users []config.StaticUser) error
}

// UserService is the default implementation of the UserServiceInterface.
type UserService struct {
	store         store.UserStoreInterface
	autoProvision bool

	dummyHashOnce sync.Once
	dummyHash     string
}

// NewUserService creates a new instance of UserService. With autoProvision, unknown federated
// identities are provisioned as new local users.
func NewUserService(userStore store.UserStoreInterface, autoProvision bool) UserServiceInterface {
	return &UserService{
		store:         userStore,
		autoProvision: autoProvision,
	}
}

// GetUser retrieves the user with the given id.
func (us *UserService) GetUser(ctx context.Context, userID string) (*model.User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	if userID == "" {
		return nil, &constants.ErrorMissingUserID
	}

	user, err := us.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, constants.ErrUserNotFound) {
			return nil, &constants.ErrorUserNotFound
		}
		logger.Error("Failed to retrieve user", log.String("userId", userID), log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}
	return user, nil
}

// VerifyUser authenticates a user with a username and password.
func (us *UserService) VerifyUser(ctx context.Context, username, password string) (
	*model.User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	user, err := us.store.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, constants.ErrUserNotFound) {
		logger.Error("Failed to retrieve user", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}

	if user == nil || user.PasswordHash == "" {
		// Compare against a fixed hash so unknown users take as long as wrong passwords.
		_ = hash.CompareSecret(us.getDummyHash(), password)
		logger.Debug("User authentication failed", log.String("username", log.MaskString(username)))
		return nil, &constants.ErrorAuthenticationFailed
	}

	if err := hash.CompareSecret(user.PasswordHash, password); err != nil {
		if !errors.Is(err, hash.ErrSecretMismatch) {
			logger.Error("Failed to compare user password", log.Error(err))
		}
		logger.Debug("User authentication failed", log.String("username", log.MaskString(username)))
		return nil, &constants.ErrorAuthenticationFailed
	}
	return user, nil
}

// FindFederatedUser resolves the local user linked to the external id, provisioning one if enabled.
func (us *UserService) FindFederatedUser(ctx context.Context, externalID string,
	claims map[string]interface{}) (*model.User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	if externalID == "" {
		return nil, &constants.ErrorMissingExternalID
	}

	user, err := us.store.GetUserByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, constants.ErrUserNotFound) {
		logger.Error("Failed to retrieve federated user", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}
	if !us.autoProvision {
		logger.Debug("No local user linked to the federated identity")
		return nil, nil
	}

	newUser := model.User{
		ID:         utils.GenerateUUID(),
		ExternalID: externalID,
	}
	created, err := us.store.CreateFederatedUser(ctx, newUser)
	if err != nil {
		logger.Error("Failed to provision federated user", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}

	// Re-read so a concurrent provisioning of the same identity resolves to the winning record.
	user, err = us.store.GetUserByExternalID(ctx, externalID)
	if err != nil {
		logger.Error("Failed to retrieve provisioned federated user", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}
	if created {
		logger.Info("Provisioned federated user", log.String("userId", user.ID),
			log.Int("claimCount", len(claims)))
	}
	return user, nil
}

// CreateUser creates a local user with a bcrypt hashed password.
func (us *UserService) CreateUser(ctx context.Context, user model.User, password string) (
	*model.User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if user.ID == "" {
		user.ID = utils.GenerateUUID()
	}
	if password != "" {
		hashed, err := hash.HashSecret(password)
		if err != nil {
			logger.Error("Failed to hash user password", log.Error(err))
			return nil, &constants.ErrorInternalServerError
		}
		user.PasswordHash = hashed
	}

	if err := us.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, constants.ErrUserAlreadyExists) {
			return nil, &constants.ErrorUsernameConflict
		}
		logger.Error("Failed to create user", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}
	return &user, nil
}

// ImportStaticUsers registers the users declared in the configuration that do not exist yet.
func (us *UserService) ImportStaticUsers(ctx context.Context, users []config.StaticUser) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	for _, su := range users {
		if su.ID == "" {
			return errors.New("static user is missing an id")
		}
		if _, err := us.store.GetUser(ctx, su.ID); err == nil {
			logger.Debug("Static user already registered", log.String("userId", su.ID))
			continue
		} else if !errors.Is(err, constants.ErrUserNotFound) {
			return err
		}

		err := us.store.CreateUser(ctx, model.User{
			ID:           su.ID,
			Username:     su.Username,
			PasswordHash: su.PasswordHash,
			ExternalID:   su.ExternalID,
		})
		if err != nil {
			return err
		}
		logger.Debug("Registered static user", log.String("userId", su.ID))
	}
	return nil
}

func (us *UserService) getDummyHash() string {
	us.dummyHashOnce.Do(func() {
		us.dummyHash, _ = hash.HashSecret(utils.GenerateUUID())
	})
	return us.dummyHash
}
