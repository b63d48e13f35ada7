package models

import "errors"

// ErrEmptySelector is returned when a resource is submitted with no selector
// terms. An empty selector matches nothing, so accepting one would create a
// controller that silently manages zero pods.
var ErrEmptySelector = errors.New("selector must have at least one term")

// Selector is a set of required key/value pairs, e.g. {"app": "nginx"}.
type Selector map[string]string

// Matches reports whether every selector key is present in labels with an
// equal value. The candidate may carry additional labels. An empty selector
// matches nothing; callers are expected to have validated selectors at the
// mutation boundary.
func (s Selector) Matches(labels map[string]string) bool {
	if len(s) == 0 {
		return false
	}
	for k, v := range s {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// Validate rejects empty selectors.
func (s Selector) Validate() error {
	if len(s) == 0 {
		return ErrEmptySelector
	}
	return nil
}
