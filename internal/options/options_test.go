package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	size int
	name string
}

func TestApply(t *testing.T) {
	cfg := &config{}
	err := Apply(cfg,
		NoError(func(c *config) { c.name = "edge" }),
		New(func(c *config) error {
			c.size = 8

			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, &config{size: 8, name: "edge"}, cfg)
}

func TestApply_StopsAtError(t *testing.T) {
	boom := errors.New("boom")

	cfg := &config{}
	err := Apply(cfg,
		NoError(func(c *config) { c.size = 1 }),
		New(func(*config) error { return boom }),
		NoError(func(c *config) { c.size = 2 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, cfg.size)
}

func TestApply_NoOptions(t *testing.T) {
	require.NoError(t, Apply(&config{}))
}
