// SPDX-License-Identifier: MPL-2.0

// Package provision creates and populates Python virtual environments.
//
// A provisioning run is a fixed fail-fast sequence: create the venv, upgrade
// pip, install the dependency manifest. The first failing step aborts the
// run with that step's exit status; there are no retries and no partial-state
// recovery. Re-running reuses the existing environment with venv's own
// semantics unless a forced recreation is requested.
//
// The main entry point is the Provisioner interface, implemented by
// VenvProvisioner:
//
//	p := provision.NewVenvProvisioner(nil, logger)
//	result, err := p.Provision(ctx, provision.Options{Requirements: "requirements.txt"})
//	// result.Venv is the populated environment
package provision
