// Package convert writes and reads the CSV formats of arkhamtr: the flat card
// export produced from a directory of card JSON files, the per-pack audit CSV
// of translations, and generic header-keyed CSV tables.
package convert
