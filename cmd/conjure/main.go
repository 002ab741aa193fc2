package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/broady/conjure/cmd/conjure/internal/check"
	"github.com/broady/conjure/cmd/conjure/internal/compile"
)

type CLI struct {
	Version VersionCmd  `cmd:"" help:"Print version information."`
	Compile compile.Cmd `cmd:"" help:"Compile definition files to .conjure.json."`
	Check   check.Cmd   `cmd:"" help:"Validate definition files without writing output."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("conjure"),
		kong.Description("Compile and validate API definition files."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
