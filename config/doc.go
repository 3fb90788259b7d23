// Package config holds glyphvid's command-line configuration and its optional
// YAML configuration file.
//
// A [Config] registers the shared flags on a [*pflag.FlagSet]. When a file is
// named with --config it is parsed with [Parse], validated against the JSON
// Schema returned by [Schema], and merged underneath the flags: any flag set
// explicitly on the command line wins over the file.
//
// A file sets any subset of the flags:
//
//	alphabet: "@%#*+=-:. "
//	interval: 40ms
//	columns: 120
//	decoder: ffmpeg
//	log-level: debug
package config
