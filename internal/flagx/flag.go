// Package flagx lets several loaders share one command line: each loader
// picks out the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName strips leading dashes, so "-config" and "--config" name the same
// flag, the way the flag package treats them.
func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// FilterArgs returns the subset of args that belongs to the flags listed in
// owned (given without dashes, e.g. "a", "config").
//
// Both "-a value" and "-a=value" are recognised; a separate value is taken
// only when the next argument does not itself look like a flag.
func FilterArgs(args []string, owned ...string) []string {
	set := make(map[string]struct{}, len(owned))
	for _, name := range owned {
		set[flagName(name)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(flagName(arg), "=")
		if _, ok := set[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, "c", "config"))

	return path
}
