// Package report prints end-of-run summaries for the command line. Messages
// are localized through embedded go-i18n catalogs (English and Brazilian
// Portuguese) and highlighted with terminal colors when stdout is a TTY.
package report
