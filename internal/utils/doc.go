// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers viper sources under an environment prefix and
// LoggerFactory builds the zap loggers. FlushingWriter keeps command output
// visible line by line when it is piped.
package utils
