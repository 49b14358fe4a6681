// Package utils provides common utility functions for ceiba.
// It includes helper functions for value conversion shared between the
// warehouse adapter and tests, logic that doesn't fit into domain-specific
// packages.
package utils
