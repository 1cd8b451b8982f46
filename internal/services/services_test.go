package services

import (
	"testing"

	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/require"
)

// testManifests serves the embedded dimension config with a fixed link seed.
func testManifests(t *testing.T) *ManifestService {
	t.Helper()
	dims, err := config.DefaultDimensions()
	require.NoError(t, err)
	return testManifestsFor(t, dims)
}

func testManifestsFor(t *testing.T, dims *models.DimensionConfig) *ManifestService {
	t.Helper()
	s, err := NewManifestService(ManifestOptions{Dimensions: dims, LinkSeed: 1})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func indexOf(t *testing.T, routes []models.Route, slug string) int {
	t.Helper()
	for i, r := range routes {
		if r.Slug == slug {
			return i
		}
	}
	t.Fatalf("route %q not in manifest", slug)
	return -1
}
