// Package app composes web modules into one root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
)

// ComposeInput carries the modules and any extra root routes.
type ComposeInput struct {
	Modules []module.Module
	// Routes are handlers mounted next to the modules, keyed by pattern.
	Routes map[string]http.Handler
}

// Compose builds a root mux from modules. Every pattern has exactly one owner.
func Compose(input ComposeInput) (*http.ServeMux, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		mount, err := resolveMount(feature)
		if err != nil {
			return nil, err
		}
		for _, pattern := range mount.Patterns {
			if err := mountPattern(root, seen, feature.ID(), pattern, mount.Handler); err != nil {
				return nil, err
			}
		}
	}
	for pattern, handler := range input.Routes {
		if handler == nil {
			return nil, fmt.Errorf("route %q handler is required", pattern)
		}
		if err := mountPattern(root, seen, "root", pattern, handler); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func mountPattern(root *http.ServeMux, seen map[string]string, owner string, pattern string, handler http.Handler) error {
	if err := validatePattern(pattern); err != nil {
		return fmt.Errorf("module %q has invalid pattern %q: %w", owner, pattern, err)
	}
	if previous, ok := seen[pattern]; ok {
		return fmt.Errorf("module %q duplicates pattern %q owned by module %q", owner, pattern, previous)
	}
	seen[pattern] = owner
	root.Handle(pattern, handler)
	return nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if len(mount.Patterns) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: at least one pattern is required", feature.ID())
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, nil
}

// validatePattern accepts plain paths only. Method matching belongs to the
// module's own mux.
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(pattern) != pattern {
		return fmt.Errorf("pattern must not include surrounding whitespace")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must begin with /")
	}
	if strings.ContainsAny(pattern, " \t") {
		return fmt.Errorf("pattern must not include a method")
	}
	return nil
}
