// Package cli provides the sbxcloud command-line client.
//
// It wires configuration, the sbxcloud API client, the local scanner and the
// mirror orchestrator behind a cobra command tree. The only command is
//
//	sbxcloud deploy <local-path> <folder-key> <domain-id>
//
// which runs a linear pipeline: prompt for credentials (unless --username and
// --password are given), log in, select the domain, resolve the target folder
// and check that it belongs to the domain, scan the local tree, ask for
// confirmation (unless --yes) and mirror the tree.
//
// Execute maps any failure to the exit status ExitFailure; "Deploy Finished."
// is printed once the pipeline has run, whether it failed or not.
package cli
