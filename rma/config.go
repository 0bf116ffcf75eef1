package rma

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by LoadConfig.
const (
	EnvShrBufMethod = "ARMCI_SHR_BUF_METHOD"
	EnvAsyncConfig  = "ARMCI_ASYNC_CONFIG"
	EnvVerbose      = "ARMCI_VERBOSE"
)

// GuardMode selects how buffers inside registered regions are handled.
type GuardMode int

const (
	// GuardCopy stages buffers that fall inside a registered region into
	// private memory, locking the region around every direct access.
	GuardCopy GuardMode = iota

	// GuardNone trusts that no direct access races the transport and skips
	// put/get staging entirely.
	GuardNone
)

func (m GuardMode) String() string {
	switch m {
	case GuardCopy:
		return "COPY"
	case GuardNone:
		return "NOGUARD"
	default:
		return "GuardMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseGuardMode maps a configuration value to a GuardMode. Only the exact
// value NOGUARD disables guarding; every other value, including empty or
// differently cased, selects GuardCopy.
func ParseGuardMode(s string) GuardMode {
	if s == "NOGUARD" {
		return GuardNone
	}
	return GuardCopy
}

// AsyncMode is the asynchronous-progress setting pushed to regions after a
// global fence.
type AsyncMode int

const (
	// AsyncUnset leaves async configuration alone.
	AsyncUnset AsyncMode = iota
	AsyncOn
	AsyncOff
	AsyncAuto
)

func (m AsyncMode) String() string {
	switch m {
	case AsyncOn:
		return "on"
	case AsyncOff:
		return "off"
	case AsyncAuto:
		return "auto"
	default:
		return "unset"
	}
}

// ParseAsyncMode maps "on", "off", "auto" (or 1, 2, 3) to an AsyncMode.
// Anything else is AsyncUnset.
func ParseAsyncMode(s string) AsyncMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1":
		return AsyncOn
	case "off", "2":
		return AsyncOff
	case "auto", "3":
		return AsyncAuto
	default:
		return AsyncUnset
	}
}

// Config is the process-wide configuration of the layer. It is read once at
// initialization and frozen into a Context.
type Config struct {
	// Guard selects staging behavior.
	// Default: GuardCopy
	Guard GuardMode

	// Async is applied to every region after each global fence when an
	// AsyncConfigurer is installed.
	// Default: AsyncUnset
	Async AsyncMode

	// Verbose enables debug logging of staging and fence events.
	// Default: false
	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Guard: GuardCopy, Async: AsyncUnset}
}

// LoadConfig builds a Config from getenv, normally os.Getenv.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if getenv == nil {
		return cfg
	}
	cfg.Guard = ParseGuardMode(getenv(EnvShrBufMethod))
	cfg.Async = ParseAsyncMode(getenv(EnvAsyncConfig))
	cfg.Verbose = parseBool(getenv(EnvVerbose), false)
	return cfg
}

// ConfigFromEnv is LoadConfig(os.Getenv).
func ConfigFromEnv() Config {
	return LoadConfig(os.Getenv)
}

// GetenvBool reads a boolean environment variable. Values starting with
// T, t, 1, y or Y are true; any other non-empty value is false.
func GetenvBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	return parseBool(v, false)
}

// GetenvInt reads an integer environment variable, returning def when it is
// unset. Like C atoi, it parses leading whitespace, an optional sign and the
// leading digits, so "12abc" is 12 and a value with no digits is 0.
func GetenvInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	return atoi(v)
}

func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	switch v[0] {
	case 'T', 't', '1', 'y', 'Y':
		return true
	default:
		return false
	}
}
