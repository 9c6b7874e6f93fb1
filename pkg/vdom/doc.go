// Package vdom defines the declarative node tree and the structural differ.
// Diff produces positional patches: each patch targets the root of the
// compared subtree, and OpChildren recurses by child index. The differ
// performs no host mutation; applying patches is the patcher's job.
package vdom
