package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/sbxcloud/internal/client/cloud"
	"github.com/dmitrijs2005/sbxcloud/internal/common"
	"github.com/dmitrijs2005/sbxcloud/internal/scanner"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// DeployArgs is the parsed deploy invocation.
type DeployArgs struct {
	LocalPath string
	FolderKey string
	DomainID  int
	Username  string
	Password  string
	Yes       bool
}

// parseDeployArgs reads the three positional arguments. Failures wrap
// common.ErrArgument.
func parseDeployArgs(args []string) (DeployArgs, error) {
	if len(args) != 3 {
		return DeployArgs{}, fmt.Errorf("%w: expected <local-path> <folder-key> <domain-id>, got %d argument(s)", common.ErrArgument, len(args))
	}
	domainID, err := strconv.Atoi(args[2])
	if err != nil {
		return DeployArgs{}, fmt.Errorf("%w: domain-id must be a number: %q", common.ErrArgument, args[2])
	}
	if args[1] == "" {
		return DeployArgs{}, fmt.Errorf("%w: empty folder-key", common.ErrArgument)
	}
	return DeployArgs{LocalPath: args[0], FolderKey: args[1], DomainID: domainID}, nil
}

func (a *App) credentials(da DeployArgs) (cloud.Credentials, error) {
	username := da.Username
	if username == "" {
		u, err := getSimpleText(a.reader, "username", a.out)
		if err != nil {
			return cloud.Credentials{}, err
		}
		username = u
	}
	if username == "" {
		return cloud.Credentials{}, fmt.Errorf("%w: username is required", common.ErrArgument)
	}

	var password []byte
	if da.Password != "" {
		password = []byte(da.Password)
	} else {
		pw, err := getPassword(a.reader, a.out)
		if err != nil {
			return cloud.Credentials{}, err
		}
		password = pw
	}
	if len(password) == 0 {
		return cloud.Credentials{}, fmt.Errorf("%w: password is required", common.ErrArgument)
	}

	return cloud.Credentials{Login: username, Password: password}, nil
}

// Deploy runs the whole pipeline. Each step returns before the next one
// starts; the first failure ends the run.
func (a *App) Deploy(ctx context.Context, da DeployArgs) error {
	localPath, err := filepath.Abs(da.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrArgument, err)
	}

	creds, err := a.credentials(da)
	if err != nil {
		return err
	}

	session, err := a.deployService.Login(ctx, creds)
	if err != nil {
		return err
	}

	domain, err := a.deployService.SelectDomain(session, da.DomainID)
	if err != nil {
		return err
	}

	folder, err := a.deployService.ResolveTarget(ctx, domain, da.FolderKey)
	if err != nil {
		return err
	}

	// Scan and mirror share the resolved root so a symlinked local folder
	// maps onto the same parent directories.
	scanRoot, err := scanner.ResolveRoot(a.fs, localPath)
	if err != nil {
		return err
	}
	sc, err := a.newScanner()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrArgument, err)
	}
	paths, err := sc.Scan(ctx, scanRoot)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deployment confirmation:\n"+
		"\tLocal Folder: %s\n"+
		"\tDomain: %s(%s) Id=%d\n"+
		"\tRemote Folder: %s -> %s\n"+
		"\tEntries: %d\n",
		localPath, domain.DisplayName, domain.Name, domain.ID, a.config.APIBaseURL, folder.Path, len(paths))

	if !da.Yes {
		ok, err := getConfirmation(a.reader, "Is this deployment valid? (true/false)", a.out)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrUserCancelled
		}
	}

	report, err := a.newOrchestrator().Mirror(ctx, scanRoot, paths, folder)
	a.logger.Info(ctx, "mirror finished",
		"folders_created", report.FoldersCreated,
		"files_uploaded", report.FilesUploaded,
		"files_skipped", report.FilesSkipped,
		"files_failed", len(report.Failures))

	if len(report.Failures) > 0 {
		fmt.Fprintf(a.errOut, "%d file(s) failed to upload:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(a.errOut, "\t%s: %v\n", f.Path, f.Err)
		}
	}
	return err
}
