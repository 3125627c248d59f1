// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for armario.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdPrendas
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdPrendas:
		return "prendas"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// NeedsSession reports whether the command opens the session stores.
func (c Command) NeedsSession() bool {
	switch c {
	case CmdTUI, CmdLogin, CmdLogout, CmdStatus, CmdPrendas:
		return true
	default:
		return false
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose bool
	JSON    bool
	Help    bool

	// login
	Email    string
	Password string
	Token    string
	Name     string
	UserID   string
	Remember bool

	// Subcommand and positional arguments after the command name
	Subcommand string
	Raw        []string
}

const usageText = `armario - your wardrobe from the terminal

Usage:
  armario                      Start the TUI (default)
  armario login                Sign in
  armario logout               Sign out and clear the stored session
  armario status, s            Show the stored session
  armario prendas, ls          List your garments
  armario config [subcommand]  Configuration
  armario version              Show version information
  armario help                 Show this help

Login:
  armario login --email ana@example.com
                               Prompts for the password on a terminal
    --password PASS            Password (avoid: visible in shell history)
    --remember                 Keep the session in persistent web storage
  armario login --token JWT [--name NAME] [--id ID]
                               Store a token obtained elsewhere

Config:
  armario config show          Print the effective configuration
  armario config get KEY       Print one value (e.g. api.base_url)
  armario config set KEY VAL   Change one value and save
  armario config keys          List settable keys
  armario config path          Print the config file location

Global Flags:
  -v, --verbose                Mirror the log to stderr
      --json                   Machine-readable output (status, prendas)
  -h, --help                   Show this help

Environment:
  ARMARIO_API_URL              Backend base URL
  ARMARIO_PLATFORM             native or web
  ARMARIO_STORAGE_BACKEND      sqlite or file
  ARMARIO_DATA_DIR             Where the session is stored
  ARMARIO_LOG_LEVEL            debug, info, warn or error
`

// commandAliases maps every accepted spelling to its command.
var commandAliases = map[string]Command{
	"tui":     CmdTUI,
	"login":   CmdLogin,
	"signin":  CmdLogin,
	"logout":  CmdLogout,
	"signout": CmdLogout,
	"status":  CmdStatus,
	"s":       CmdStatus,
	"whoami":  CmdStatus,
	"prendas": CmdPrendas,
	"ls":      CmdPrendas,
	"config":  CmdConfig,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// newFlagSet declares every flag on one set; commands read what they need.
func newFlagSet(args *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("armario", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(true)

	fs.BoolVarP(&args.Verbose, "verbose", "v", false, "mirror the log to stderr")
	fs.BoolVar(&args.JSON, "json", false, "machine-readable output")
	fs.BoolVarP(&args.Help, "help", "h", false, "show help")

	fs.StringVarP(&args.Email, "email", "e", "", "account email")
	fs.StringVarP(&args.Password, "password", "p", "", "account password")
	fs.StringVar(&args.Token, "token", "", "existing session token")
	fs.StringVar(&args.Name, "name", "", "display name stored with --token")
	fs.StringVar(&args.UserID, "id", "", "user id stored with --token")
	fs.BoolVar(&args.Remember, "remember", false, "remember the session on the web platform")
	return fs
}

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args, error) {
	var args Args
	fs := newFlagSet(&args)
	if err := fs.Parse(argv); err != nil {
		return CmdHelp, args, &UsageError{Message: err.Error()}
	}

	positional := fs.Args()
	if args.Help {
		return CmdHelp, args, nil
	}
	if len(positional) == 0 {
		return CmdTUI, args, nil
	}

	cmd, ok := commandAliases[strings.ToLower(positional[0])]
	if !ok {
		msg := fmt.Sprintf("unknown command %q", positional[0])
		if hint := suggestCommand(positional[0]); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		return CmdHelp, args, &UsageError{Message: msg}
	}

	args.Raw = positional[1:]
	if len(args.Raw) > 0 {
		args.Subcommand = args.Raw[0]
	}
	return cmd, args, nil
}

// ShowHelp writes the usage text.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// HandleVersion prints version information.
func HandleVersion(w io.Writer, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go":         runtime.Version(),
		}).Encode(w)
	}
	fmt.Fprintf(w, "armario %s\n", Version)
	fmt.Fprintf(w, "  Commit:  %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:   %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// suggestCommand returns the closest known command within two edits.
func suggestCommand(input string) string {
	input = strings.ToLower(input)
	best, bestDist := "", 3
	for name := range commandAliases {
		if len(name) < 3 {
			continue
		}
		if d := levenshtein(input, name); d < bestDist || (d == bestDist && name < best) {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
