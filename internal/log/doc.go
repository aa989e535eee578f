// Package log provides slog-based logging that never prints credentials.
//
// SecureHandler wraps any slog.Handler and masks:
//   - attributes named like passwords, tokens or API keys
//   - Google API keys and PEM private keys by value
//   - key= and password query parameters and userinfo passwords in URLs,
//     including URLs inside error messages
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
