package main

import (
	"errors"
	"testing"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeOverrides(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantHeadless bool
		wantDriver   string
	}{
		{name: "defaults keep config", args: nil, wantHeadless: true, wantDriver: "rod"},
		{name: "explicit false wins", args: []string{"--headless=false"}, wantHeadless: false, wantDriver: "rod"},
		{name: "driver override", args: []string{"--driver", "playwright"}, wantHeadless: true, wantDriver: "playwright"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := &AppFlags{}
			cmd := &cobra.Command{Use: "scrape"}
			bindScrapeFlags(cmd, flags)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			cfg := config.NewDefaultGlobalConfig()
			cfg.BrowserConfig.Headless = true
			cfg.BrowserConfig.Driver = "rod"
			applyScrapeOverrides(cmd, flags, cfg)

			assert.Equal(t, tt.wantHeadless, cfg.BrowserConfig.Headless)
			assert.Equal(t, tt.wantDriver, cfg.BrowserConfig.Driver)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"scrape", "transform", "export"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestTransformOverrides(t *testing.T) {
	cfg := config.NewDefaultGlobalConfig()
	defaults := append([]string(nil), cfg.TransformConfig.Inputs...)

	applyTransformOverrides(&AppFlags{}, cfg)
	assert.Equal(t, defaults, cfg.TransformConfig.Inputs)

	applyTransformOverrides(&AppFlags{Inputs: []string{"a.json", "https://x.example/b.json"}, OutputFile: "out.json"}, cfg)
	assert.Equal(t, []string{"a.json", "https://x.example/b.json"}, cfg.TransformConfig.Inputs)
	assert.Equal(t, "out.json", cfg.TransformConfig.OutputFile)
}

func TestFatalMessage(t *testing.T) {
	assert.Contains(t, fatalMessage(common.WrapError(common.ErrSessionMissing, "open browser")), "No saved session")
	assert.Contains(t, fatalMessage(common.ErrNoIndexEntries), "No cards found")
	assert.Equal(t, "No servers found in the configured inputs.", fatalMessage(common.ErrNoServers))
	assert.Equal(t, "Error: boom", fatalMessage(errors.New("boom")))
}
