// Package services contains application services for the deploy CLI.
// This file defines the deployment preparation steps that run before the
// mirror: login, domain selection and target folder resolution.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sbxcloud/internal/client/cloud"
	"github.com/dmitrijs2005/sbxcloud/internal/common"
	"github.com/dmitrijs2005/sbxcloud/internal/logging"
)

// DeployService defines the pipeline steps that precede uploading.
//
// Contract:
//   - Login: exchange credentials for a session; the password is wiped.
//   - SelectDomain: pick one of the session's memberships by id.
//   - ResolveTarget: fetch the target folder and check it lives in the domain.
//
// All methods must honor context cancellation/timeouts.
type DeployService interface {
	Login(ctx context.Context, creds cloud.Credentials) (*cloud.Session, error)
	SelectDomain(session *cloud.Session, domainID int) (*cloud.Domain, error)
	ResolveTarget(ctx context.Context, domain *cloud.Domain, folderKey string) (*cloud.RemoteFolder, error)
}

type deployService struct {
	client cloud.Client
	logger logging.Logger
}

// NewDeployService constructs a DeployService bound to the given API client.
func NewDeployService(client cloud.Client, logger logging.Logger) DeployService {
	return &deployService{client: client, logger: logger}
}

// Login authenticates against the server. Errors wrap common.ErrAuth.
func (s *deployService) Login(ctx context.Context, creds cloud.Credentials) (*cloud.Session, error) {
	defer common.WipeByteArray(creds.Password)

	session, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if exp, ok := session.ExpiresAt(); ok {
		s.logger.Debug(ctx, "session token", "expires_at", exp)
	}
	s.logger.Info(ctx, "logged in", "user", creds.Login, "domains", len(session.User.MemberOf))
	return session, nil
}

// SelectDomain returns the membership with the given id, or common.ErrArgument.
func (s *deployService) SelectDomain(session *cloud.Session, domainID int) (*cloud.Domain, error) {
	d, ok := session.Domain(domainID)
	if !ok {
		return nil, fmt.Errorf("%w: invalid domain Id=%d provided", common.ErrArgument, domainID)
	}
	return d, nil
}

// ResolveTarget lists the target folder and verifies that its key path runs
// through the domain's home folder. A folder outside the domain fails with
// common.ErrDomainMismatch before anything is uploaded.
func (s *deployService) ResolveTarget(ctx context.Context, domain *cloud.Domain, folderKey string) (*cloud.RemoteFolder, error) {
	folder, err := s.client.ListFolder(ctx, folderKey)
	if err != nil {
		return nil, fmt.Errorf("resolve folder %s: %w", folderKey, err)
	}

	if !folder.KeyPath.Contains(domain.HomeKey) {
		return nil, fmt.Errorf("%w: the folder-key:%s doesn't belong to the selected domain:%s(%s)",
			common.ErrDomainMismatch, folderKey, domain.DisplayName, domain.Name)
	}
	return folder, nil
}
