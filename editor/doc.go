// Package editor provides a Bubble Tea component hosting a spell-checked
// doctree document: it routes keystrokes through tree transactions, pokes
// the check scheduler on every edit, and folds validated checker results
// back into the tree through the reconciler.
package editor
