// Package doctree implements the document model for spelltree: an ordered
// tree of blocks, each holding an ordered sequence of text-bearing leaves.
//
// All mutation goes through an exclusive Update transaction. The tree keeps
// a monotonic version counter that advances on every effective mutation;
// consumers use it to detect that results computed against an older snapshot
// have gone stale.
package doctree
