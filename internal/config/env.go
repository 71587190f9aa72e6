package config

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// intList is a comma-separated []int flag. Set replaces the whole list, so
// the default is dropped rather than appended to.
type intList []int

func (l *intList) String() string {
	if l == nil || len(*l) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range *l {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func (l *intList) Set(s string) error {
	v, err := parseInts(s)
	if err == nil {
		*l = v
	}
	return err
}

// parseInts reads "8, 16,32". Blank input is an empty list; a blank element
// is an error.
func parseInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for f := range strings.SplitSeq(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func mustParseInts(s string) []int {
	v, err := parseInts(s)
	if err != nil {
		panic(err)
	}
	return v
}

// fromEnv parses $POLYMUL_<key>. Unset, empty or unparsable values yield def,
// so a malformed variable never prevents startup.
func fromEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvString(key, def string) string {
	return fromEnv(key, def, func(s string) (string, error) { return s, nil })
}

func getEnvInt(key string, def int) int {
	return fromEnv(key, def, strconv.Atoi)
}

func getEnvUint64(key string, def uint64) uint64 {
	return fromEnv(key, def, func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) })
}

func getEnvInts(key string, def []int) []int {
	return fromEnv(key, def, parseInts)
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	return fromEnv(key, def, time.ParseDuration)
}

var envBools = map[string]bool{
	"1": true, "true": true, "yes": true, "on": true,
	"0": false, "false": false, "no": false, "off": false,
}

// getEnvBool accepts 1/0, true/false, yes/no and on/off in any case.
func getEnvBool(key string, def bool) bool {
	return fromEnv(key, def, func(s string) (bool, error) {
		if v, ok := envBools[strings.ToLower(s)]; ok {
			return v, nil
		}
		return false, fmt.Errorf("invalid boolean %q", s)
	})
}

// applyEnvOverrides fills every field whose flag was not given on the
// command line from $POLYMUL_<NAME>, so precedence is flag, then
// environment, then default. NAME is the flag name upper-cased with dashes
// turned into underscores (-max-terms reads POLYMUL_MAX_TERMS).
func applyEnvOverrides(c *AppConfig, fs *flag.FlagSet) {
	var given []string
	fs.Visit(func(f *flag.Flag) { given = append(given, f.Name) })

	bindings := []struct {
		flags []string
		apply func(key string)
	}{
		{[]string{"sizes"}, func(k string) { c.Sizes = getEnvInts(k, c.Sizes) }},
		{[]string{"thresholds"}, func(k string) { c.Thresholds = getEnvInts(k, c.Thresholds) }},
		{[]string{"min-log"}, func(k string) { c.MinLog = getEnvInt(k, c.MinLog) }},
		{[]string{"max-log"}, func(k string) { c.MaxLog = getEnvInt(k, c.MaxLog) }},
		{[]string{"threshold"}, func(k string) { c.Threshold = getEnvInt(k, c.Threshold) }},
		{[]string{"parallel-threshold"}, func(k string) { c.ParallelThreshold = getEnvInt(k, c.ParallelThreshold) }},
		{[]string{"repeat"}, func(k string) { c.Repeat = getEnvInt(k, c.Repeat) }},
		{[]string{"workers"}, func(k string) { c.Workers = getEnvInt(k, c.Workers) }},
		{[]string{"max-terms"}, func(k string) { c.MaxTerms = getEnvInt(k, c.MaxTerms) }},
		{[]string{"modulus"}, func(k string) { c.Modulus = getEnvUint64(k, c.Modulus) }},
		{[]string{"seed"}, func(k string) { c.Seed = getEnvUint64(k, c.Seed) }},
		{[]string{"timeout"}, func(k string) { c.Timeout = getEnvDuration(k, c.Timeout) }},
		{[]string{"ring"}, func(k string) { c.Ring = getEnvString(k, c.Ring) }},
		{[]string{"format"}, func(k string) { c.Format = getEnvString(k, c.Format) }},
		{[]string{"output", "o"}, func(k string) { c.OutputFile = getEnvString(k, c.OutputFile) }},
		{[]string{"chart"}, func(k string) { c.ChartFile = getEnvString(k, c.ChartFile) }},
		{[]string{"calibration-profile"}, func(k string) { c.CalibrationProfile = getEnvString(k, c.CalibrationProfile) }},
		{[]string{"port"}, func(k string) { c.Port = getEnvString(k, c.Port) }},
		{[]string{"log-level"}, func(k string) { c.LogLevel = getEnvString(k, c.LogLevel) }},
		{[]string{"demo"}, func(k string) { c.Demo = getEnvBool(k, c.Demo) }},
		{[]string{"calibrate"}, func(k string) { c.Calibrate = getEnvBool(k, c.Calibrate) }},
		{[]string{"server"}, func(k string) { c.ServerMode = getEnvBool(k, c.ServerMode) }},
		{[]string{"quiet", "q"}, func(k string) { c.Quiet = getEnvBool(k, c.Quiet) }},
		{[]string{"no-color"}, func(k string) { c.NoColor = getEnvBool(k, c.NoColor) }},
	}
	for _, b := range bindings {
		if slices.ContainsFunc(b.flags, func(name string) bool { return slices.Contains(given, name) }) {
			continue
		}
		b.apply(envKey(b.flags[0]))
	}
}

func envKey(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
