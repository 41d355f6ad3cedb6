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

package granthandlers

import (
	"context"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/federation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/pkce"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
)

const federatedComponentName = "FederatedGrantHandler"

// federatedGrantHandler exchanges a directory assertion for tokens. The client proves possession of
// the PKCE verifier matching the challenge it registered before the federated sign in.
type federatedGrantHandler struct {
	verifier     federation.DirectoryVerifierInterface
	challenges   federation.ChallengeServiceInterface
	userResolver userservice.FederatedUserResolverInterface
}

// NewFederatedGrantHandler creates a federated grant handler. Every collaborator is required.
func NewFederatedGrantHandler(verifier federation.DirectoryVerifierInterface,
	challenges federation.ChallengeServiceInterface,
	userResolver userservice.FederatedUserResolverInterface) (GrantHandlerInterface, error) {
	switch {
	case verifier == nil:
		return nil, model.NewConfigurationError(federatedComponentName, "directory verifier is required")
	case challenges == nil:
		return nil, model.NewConfigurationError(federatedComponentName, "challenge service is required")
	case userResolver == nil:
		return nil, model.NewConfigurationError(federatedComponentName, "federated user resolver is required")
	}

	return &federatedGrantHandler{
		verifier:     verifier,
		challenges:   challenges,
		userResolver: userResolver,
	}, nil
}

// ValidateGrant validates the federated grant request.
func (h *federatedGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	_ *clientmodel.Client) *model.ErrorResponse {
	switch {
	case tokenRequest.Assertion == "":
		return model.NewInvalidRequestError("Assertion is required")
	case tokenRequest.State == "":
		return model.NewInvalidRequestError("State is required")
	case tokenRequest.CodeVerifier == "":
		return model.NewInvalidRequestError("Code verifier is required")
	}
	return nil
}

// HandleGrant consumes the challenge, checks the verifier, verifies the assertion and resolves the
// local user. The challenge is spent even when a later step fails.
func (h *federatedGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, federatedComponentName),
		log.String(log.LoggerKeyClientID, client.ID))

	pending, err := h.challenges.ConsumeChallenge(ctx, client.ID, tokenRequest.State)
	if err != nil {
		logger.Debug("Federated challenge not found", log.Error(err))
		return nil, model.NewGrantError("Unknown or expired state")
	}

	strict := config.GetServerRuntime().Config.OAuth.PKCE.StrictVerifierFormat
	if err := pkce.ValidatePKCE(pending.CodeChallenge, pending.CodeChallengeMethod, tokenRequest.CodeVerifier,
		pkce.WithStrictVerifierFormat(strict)); err != nil {
		logger.Debug("Federated PKCE verification failed", log.Error(err))
		return nil, model.NewGrantError("Invalid code verifier")
	}

	identity, err := h.verifier.VerifyAssertion(ctx, tokenRequest.Assertion)
	if err != nil {
		logger.Debug("Directory assertion rejected", log.Error(err))
		return nil, model.NewGrantError("Invalid assertion")
	}

	user, svcErr := h.userResolver.FindFederatedUser(ctx, identity.ExternalID, identity.Claims)
	if svcErr != nil {
		if svcErr.Type == serviceerror.ServerErrorType {
			logger.Error("Failed to resolve federated user", log.String("code", svcErr.Code))
			return nil, model.NewServerError()
		}
		return nil, model.NewGrantError("Invalid assertion")
	}
	if user == nil {
		logger.Debug("No local user linked to the directory identity")
		return nil, model.NewGrantError("No account is linked to the directory identity")
	}

	return &GrantOutcome{
		User:   user,
		Scopes: validator.ParseScopes(tokenRequest.Scope, nil),
	}, nil
}
