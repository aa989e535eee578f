// Package config provides configuration structures and utilities for tipsgen.
//
// A Config is assembled once per invocation from cobra flags, the process
// environment (read through viper, with per-environment dotenv files for
// uploads) and the optional .tipsgen.yaml site file. Components receive the
// values they need explicitly; nothing reads the environment after startup.
package config
