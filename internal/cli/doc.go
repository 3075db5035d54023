// Package cli provides command-line interface setup and configuration
// for the arkhamtr application. It handles flag parsing, command
// creation, and configuration management using cobra and viper, and
// turns the resolved settings into the component configs the
// translation pipeline is built from.
package cli
