// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/yiakwy/edx-platform/internal/discovery"
	"github.com/yiakwy/edx-platform/internal/infrastructure/courseapi"
	"github.com/yiakwy/edx-platform/internal/render"
	logging "github.com/yiakwy/edx-platform/pkg/log"
)

// Globals is bound into every command
type Globals struct {
	Ctx     context.Context
	Out     io.Writer
	Term    *render.Terminal
	Fetcher discovery.PageFetcher
	Profile Profile
}

// NewApp builds a discovery app rendering to the terminal
func (g *Globals) NewApp() *discovery.App {
	return discovery.NewApp(g.Fetcher, g.Term, discovery.WithPageSize(g.Profile.PageSize))
}

type CLI struct {
	Search  SearchCmd  `cmd:"" aliases:"s" help:"Search the course catalog"`
	Shell   ShellCmd   `cmd:"" help:"Browse the course catalog interactively"`
	Profile ProfileCmd `cmd:"" help:"Write the current settings to the profile file"`

	ProfilePath string `name:"profile" help:"Path to the TOML profile file"`
	BaseURL     string `name:"base-url" short:"u" help:"Discovery service URL" env:"DISCOVERY_BASE_URL"`
	Token       string `name:"token" help:"Bearer token sent with each request" env:"DISCOVERY_TOKEN"`
	PageSize    int    `name:"page-size" help:"Courses per page"`
	Debug       bool   `name:"debug" short:"d" help:"Log requests to stderr"`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	level := "warn"
	if c.Debug {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "text", Output: os.Stderr})

	if c.ProfilePath == "" {
		c.ProfilePath = DefaultProfilePath()
	}
	profile, err := LoadProfile(c.ProfilePath)
	if err != nil {
		return err
	}
	c.applyFlags(&profile)

	clientConfig, err := profile.ClientConfig()
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	ctx.Bind(&Globals{
		Ctx:     context.Background(),
		Out:     os.Stdout,
		Term:    render.NewTerminal(os.Stdout, 0),
		Fetcher: courseapi.NewClient(clientConfig),
		Profile: profile,
	})
	return nil
}

func (c *CLI) applyFlags(profile *Profile) {
	if c.BaseURL != "" {
		profile.BaseURL = c.BaseURL
	}
	if c.Token != "" {
		profile.Token = c.Token
	}
	if c.PageSize > 0 {
		profile.PageSize = c.PageSize
	}
}

// ProfileCmd saves the effective settings
type ProfileCmd struct{}

func (p *ProfileCmd) Run(cli *CLI, g *Globals) error {
	if err := SaveProfile(cli.ProfilePath, g.Profile); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Profile written to %s\n", cli.ProfilePath)
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("discovery"),
		kong.Description("Course discovery client"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
