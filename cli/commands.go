package cli

import (
	"fmt"
	"os"

	"github.com/tallyops/advicenorm/config"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"Path to a client configuration file." type:"path"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

// LoadConfig resolves the effective configuration. Without --config the
// defaults apply; a flag pointing at a missing file is an error.
func (g *Globals) LoadConfig() (*config.Config, error) {
	if g.Config == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(g.Config); err != nil {
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	return config.Load(g.Config)
}

type Commands struct {
	Globals

	Normalize NormalizeCmd `cmd:"" help:"Normalize an extracted payment advice into ledger lines."`
	Check     CheckCmd     `cmd:"" help:"Validate a normalized advice result file."`
	Watch     WatchCmd     `cmd:"" help:"Watch a directory and normalize advice files as they appear."`
	Serve     ServeCmd     `cmd:"" help:"Start the normalization HTTP server."`
}
