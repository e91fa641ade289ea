// Package authz enforces role-based access with casbin. Staff can read
// clinical data and build exports; admins can also modify it and run
// imports. Model and policy ship embedded in the binary.
package authz

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v3"
)

//go:embed model.conf policy.csv
var embedFS embed.FS

// Enforcer wraps the casbin enforcer with the clinic's role model.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer creates the enforcer from the embedded model and policy files.
func NewEnforcer() (*Enforcer, error) {
	dir, err := os.MkdirTemp("", "clinic-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model.conf", "policy.csv"); err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(
		filepath.Join(dir, "model.conf"),
		filepath.Join(dir, "policy.csv"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	return &Enforcer{enforcer: e}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// Enforce checks whether a role may perform action on resource.
// resource e.g. "patients", "records", "traceability", "export";
// action "read" or "write".
func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	return e.enforcer.Enforce(role, resource, action)
}
